package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@h:5432/d?sslmode=disable", "postgres://u:p@h:5432/d?sslmode=disable"},
		{`"postgres://u:p@h/d"`, "postgres://u:p@h/d"},
		{"host=h user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h  user=u   dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=localhost port=5432 user=u password=p dbname=d sslmode=disable")
	want := "postgres://u:p@localhost:5432/d?sslmode=disable"
	if got != want {
		t.Errorf("ToURLDSN = %q, want %q", got, want)
	}
	// URL form passes through untouched
	if got := ToURLDSN(want); got != want {
		t.Errorf("url passthrough = %q", got)
	}
}
