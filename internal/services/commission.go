package services

import "sapipay/pkg/utils"

// Provider-side processing fee, percent of the nominal amount.
const processingFeePercent = 2

// Split is the commission breakdown for one charge. All values are integer
// minor currency units and always satisfy
// CreatorAmount + PlatformAmount + ProcessingFee == GrossAmount.
type Split struct {
	CreatorAmount  int64
	PlatformAmount int64
	ProcessingFee  int64
	GrossAmount    int64
}

// SplitAmount computes the creator/platform split for amount (minor units).
// When the subscriber bears the commission the creator receives the full
// nominal amount and the gross charge grows by commission and fee; otherwise
// the gross charge is the nominal amount and the creator receives what is
// left. Truncation remainders land on the platform side. A configuration
// that leaves the creator with a negative amount is fatal, not retriable.
func SplitAmount(amount int64, sapiSharePercent int64, commissionBySubscriber bool) (Split, error) {
	if amount <= 0 || sapiSharePercent < 0 || sapiSharePercent > 100 {
		return Split{}, utils.ErrCommissionConfig
	}

	fee := amount * processingFeePercent / 100
	platform := amount * sapiSharePercent / 100

	if commissionBySubscriber {
		return Split{
			CreatorAmount:  amount,
			PlatformAmount: platform,
			ProcessingFee:  fee,
			GrossAmount:    amount + platform + fee,
		}, nil
	}

	creator := amount - platform - fee
	if creator < 0 {
		return Split{}, utils.ErrCommissionConfig
	}
	return Split{
		CreatorAmount: creator,
		// remainder from integer truncation stays with the platform
		PlatformAmount: amount - creator - fee,
		ProcessingFee:  fee,
		GrossAmount:    amount,
	}, nil
}
