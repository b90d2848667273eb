package types

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{Rupees(1000), "₹1000.00"},
		{Money{Amount: 125050}, "₹1250.50"},
		{Money{Amount: 5}, "₹0.05"},
		{Money{}, "₹0.00"},
		{Money{Amount: -150}, "-₹1.50"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.in.Amount, got, tt.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"₹1000.00", 100000, false},
		{"₹1,250.5", 125050, false},
		{"Rs 300", 30000, false},
		{"INR 42.999", 4299, false},
		{"750", 75000, false},
		{"  ₹ 80 ", 8000, false},
		{"â‚¹1400.00", 140000, false},
		{"", 0, true},
		{"₹", 0, true},
		{"abc", 0, true},
		{"12.3.4", 0, true},
		{"₹92233720368547757.99", 9223372036854775799, false},
		{"₹92233720368547758.00", 0, true},
		{"₹99999999999999999.00", 0, true},
		{"1.-5", 0, true},
		{"1.+5", 0, true},
		{"+5", 0, true},
		{"-+5", 0, true},
		{".", 0, true},
		{"-250.5", -25050, false},
		{".5", 50, false},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMoney(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMoney(%q) error = %v", tt.in, err)
			continue
		}
		if got.Amount != tt.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got.Amount, tt.want)
		}
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{Lat: 12.97, Lng: 77.59}).Valid() {
		t.Error("expected Bengaluru to be valid")
	}
	if (Point{Lat: 91, Lng: 0}).Valid() {
		t.Error("expected lat 91 to be invalid")
	}
	if (Point{Lat: 0, Lng: -180.5}).Valid() {
		t.Error("expected lng -180.5 to be invalid")
	}
}
