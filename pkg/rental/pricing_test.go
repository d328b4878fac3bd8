package rental

import "testing"

func TestDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
		wantErr    bool
	}{
		{"2024-03-01", "2024-03-04", 3, false},
		{"2024-03-01", "2024-03-01", 1, false},
		{"2024-02-28", "2024-03-01", 2, false}, // leap year
		{"2024-12-31", "2025-01-01", 1, false},
		{"2024-03-04", "2024-03-01", 1, false},
		{"1900-01-01", "2300-01-01", 146097, false},
		{"0001-01-01", "9999-12-31", 3652058, false},
		{"2024-13-01", "2024-03-01", 0, true},
		{"", "2024-03-01", 0, true},
	}
	for _, tt := range tests {
		got, err := Days(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Errorf("Days(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Days(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestPrice(t *testing.T) {
	if got := Price(3, 33.333); got != 100 {
		t.Errorf("Price(3, 33.333) = %v, want 100", got)
	}
	if got := Price(7, 89.9); got != 629.3 {
		t.Errorf("Price(7, 89.9) = %v, want 629.3", got)
	}
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{"120,50": 120.5, " 99.9 ": 99.9, "0": 0} {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Errorf("ParseAmount(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "abc", "NaN"} {
		if _, err := ParseAmount(in); err != ErrInvalidAmount {
			t.Errorf("ParseAmount(%q) expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestParsePayment(t *testing.T) {
	tests := map[string]Payment{"": PaymentPix, "Cash": PaymentCash, "dinheiro": PaymentCash, "PIX": PaymentPix, "cartão": PaymentCard}
	for in, want := range tests {
		got, err := ParsePayment(in)
		if err != nil || got != want {
			t.Errorf("ParsePayment(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePayment("boleto"); err != ErrInvalidPayment {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
}
