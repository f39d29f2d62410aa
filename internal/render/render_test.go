package render_test

import (
	"testing"

	"github.com/openmerchant/paygate/internal/render"
	"github.com/stretchr/testify/require"
)

func TestParagraphs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "blank line splits",
			in:   "Pay within 3 days.\n\nThanks for your order.",
			want: []string{"Pay within 3 days.", "Thanks for your order."},
		},
		{
			name: "single newline joins",
			in:   "Line one\nline two",
			want: []string{"Line one line two"},
		},
		{
			name: "windows line endings",
			in:   "First.\r\n\r\nSecond.",
			want: []string{"First.", "Second."},
		},
		{
			name: "empty input",
			in:   "   \n\n  ",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, render.Paragraphs(tc.in))
		})
	}
}

func TestTexturize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"wait...", "wait…"},
		{"a -- b", "a – b"},
		{"a --- b", "a — b"},
		{`"quoted"`, "“quoted”"},
		{"it's fine", "it’s fine"},
		{"(c) 2026", "© 2026"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, render.Texturize(tc.in))
	}
}

func TestInstructions(t *testing.T) {
	require.Nil(t, render.Instructions("  "))
	require.Equal(t,
		[]string{"Pay “now”…", "Or later."},
		render.Instructions("Pay \"now\"...\n\nOr later."),
	)
}
