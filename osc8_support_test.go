package mdhtml

import "testing"

func TestDetectOSC8(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "empty", env: nil, want: false},
		{name: "windows terminal", env: map[string]string{"WT_SESSION": "1"}, want: true},
		{name: "wezterm", env: map[string]string{"TERM_PROGRAM": "WezTerm"}, want: true},
		{name: "kitty", env: map[string]string{"TERM": "xterm-kitty"}, want: true},
		{name: "new vte", env: map[string]string{"VTE_VERSION": "6800"}, want: true},
		{name: "old vte", env: map[string]string{"VTE_VERSION": "4200"}, want: false},
		{name: "disabled", env: map[string]string{"OSC8": "0", "WT_SESSION": "1"}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			getenv := func(key string) string { return tc.env[key] }
			if got := detectOSC8(getenv); got != tc.want {
				t.Fatalf("detectOSC8 = %v, want %v", got, tc.want)
			}
		})
	}
}
