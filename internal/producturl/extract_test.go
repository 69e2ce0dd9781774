package producturl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "   \t\n", want: nil},
		{name: "no link", in: "no link here", want: nil},
		{name: "embedded", in: "check this out https://www.ozon.ru/product/42/ thanks", want: []string{"https://www.ozon.ru/product/42/"}},
		{name: "www prefix", in: "see www.ozon.ru/product/1", want: []string{"http://www.ozon.ru/product/1"}},
		{name: "upper scheme", in: "HTTPS://WWW.OZON.RU/product/1", want: []string{"HTTPS://WWW.OZON.RU/product/1"}},
		{
			name: "several",
			in:   "a http://x.example/1 b\nhttps://y.example/2?q=1\twww.z.example",
			want: []string{"http://x.example/1", "https://y.example/2?q=1", "http://www.z.example"},
		},
		{name: "scheme only", in: "https://", want: nil},
		{name: "scheme then space", in: "https:// x", want: nil},
		{name: "scheme with junk", in: "https://%zz", want: []string{"https://%zz"}},
		{name: "greedy punctuation", in: "(https://a.example/p)", want: []string{"https://a.example/p)"}},
		{name: "ftp ignored", in: "ftp://files.example/x", want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Extract(tc.in))
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://www.ozon.ru/product/42",
		"http://example.com",
		"HTTPS://EXAMPLE.COM/",
		"https://example.com:8443/x?y=1#z",
	}
	for _, s := range valid {
		require.True(t, IsValidHTTPURL(s), s)
	}

	invalid := []string{
		"",
		"   ",
		"https://",
		"http:///path",
		"ftp://example.com/x",
		"example.com/x",
		"/relative/path",
		"mailto:user@example.com",
		"https://exa mple.com/",
		"https://%zz/",
	}
	for _, s := range invalid {
		require.False(t, IsValidHTTPURL(s), s)
	}
}
