package services

import (
	"errors"
	"testing"

	"sapipay/pkg/utils"
)

func TestSplitAmount(t *testing.T) {
	t.Run("Given commission borne by creator When split Then gross equals nominal and parts reconcile", func(t *testing.T) {
		split, err := SplitAmount(100_000, 10, false)
		if err != nil {
			t.Fatalf("SplitAmount failed: %v", err)
		}
		if split.GrossAmount != 100_000 {
			t.Errorf("gross = %d, want 100000", split.GrossAmount)
		}
		if split.ProcessingFee != 2_000 {
			t.Errorf("fee = %d, want 2000", split.ProcessingFee)
		}
		if split.CreatorAmount != 88_000 {
			t.Errorf("creator = %d, want 88000", split.CreatorAmount)
		}
		if got := split.CreatorAmount + split.PlatformAmount; got != split.GrossAmount-split.ProcessingFee {
			t.Errorf("creator+platform = %d, want gross-fee = %d", got, split.GrossAmount-split.ProcessingFee)
		}
	})

	t.Run("Given commission borne by subscriber When split Then creator keeps nominal and gross grows", func(t *testing.T) {
		split, err := SplitAmount(100_000, 10, true)
		if err != nil {
			t.Fatalf("SplitAmount failed: %v", err)
		}
		if split.CreatorAmount != 100_000 {
			t.Errorf("creator = %d, want the full nominal 100000", split.CreatorAmount)
		}
		if split.GrossAmount != 100_000+split.PlatformAmount+split.ProcessingFee {
			t.Errorf("gross = %d, want amount+platform+fee", split.GrossAmount)
		}
	})

	t.Run("Given awkward amounts When split Then reconciliation holds with remainder on platform", func(t *testing.T) {
		cases := []struct {
			amount int64
			share  int64
			borne  bool
		}{
			{101, 10, false},
			{999, 33, false},
			{1, 10, false},
			{12_345, 7, false},
			{101, 10, true},
			{999, 33, true},
			{12_345, 7, true},
		}
		for _, tc := range cases {
			split, err := SplitAmount(tc.amount, tc.share, tc.borne)
			if err != nil {
				t.Fatalf("SplitAmount(%d,%d,%v) failed: %v", tc.amount, tc.share, tc.borne, err)
			}
			if split.CreatorAmount < 0 {
				t.Errorf("SplitAmount(%d,%d,%v): negative creator amount %d", tc.amount, tc.share, tc.borne, split.CreatorAmount)
			}
			if got := split.CreatorAmount + split.PlatformAmount + split.ProcessingFee; got != split.GrossAmount {
				t.Errorf("SplitAmount(%d,%d,%v): parts sum %d != gross %d", tc.amount, tc.share, tc.borne, got, split.GrossAmount)
			}
		}
	})

	t.Run("Given a share that consumes the whole amount When creator would go negative Then config error", func(t *testing.T) {
		_, err := SplitAmount(100, 99, false)
		if !errors.Is(err, utils.ErrCommissionConfig) {
			t.Fatalf("err = %v, want ErrCommissionConfig", err)
		}
	})

	t.Run("Given invalid inputs When split Then config error", func(t *testing.T) {
		if _, err := SplitAmount(0, 10, false); !errors.Is(err, utils.ErrCommissionConfig) {
			t.Errorf("zero amount: err = %v, want ErrCommissionConfig", err)
		}
		if _, err := SplitAmount(100, -1, false); !errors.Is(err, utils.ErrCommissionConfig) {
			t.Errorf("negative share: err = %v, want ErrCommissionConfig", err)
		}
		if _, err := SplitAmount(100, 101, false); !errors.Is(err, utils.ErrCommissionConfig) {
			t.Errorf("share over 100: err = %v, want ErrCommissionConfig", err)
		}
	})
}
