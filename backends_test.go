package soundtype

import "testing"

func TestBackendByName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "ebiten"},
		{"Ebiten", "ebiten"},
		{" oto ", "oto"},
		{"headless", "headless"},
		{"none", "headless"},
	}
	for _, tc := range cases {
		b, err := BackendByName(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if b.Name() != tc.want {
			t.Fatalf("%q: backend %s, want %s", tc.in, b.Name(), tc.want)
		}
	}
	if _, err := BackendByName("pulse"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
