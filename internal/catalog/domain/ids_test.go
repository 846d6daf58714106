package domain

import "testing"

func TestGlobalID(t *testing.T) {
	got := GlobalID("InventoryItem", " 111 ")
	if got != "gid://shopify/InventoryItem/111" {
		t.Fatalf("unexpected gid %q", got)
	}
}

func TestLegacyID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"gid://shopify/ProductVariant/42", "42"},
		{"gid://shopify/Product/99?sku=abc", "99"},
		{"42", "42"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := LegacyID(tc.in); got != tc.want {
			t.Fatalf("LegacyID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
