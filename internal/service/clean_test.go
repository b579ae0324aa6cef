package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "plain", in: "hello", max: 10, want: "hello"},
		{name: "tags and spaces", in: "  <p>Hello,\n\t <b>world</b></p>  ", max: 50, want: "Hello, world"},
		{name: "entities", in: "Tom &amp; Jerry&nbsp;&quot;show&quot;", max: 50, want: `Tom & Jerry "show"`},
		{name: "escaped markup is stripped", in: "&lt;script&gt;x&lt;/script&gt;", max: 50, want: "x"},
		{name: "nested tags", in: "a<<b>i>b", max: 50, want: "ab"},
		{name: "word boundary", in: "one two three four", max: 12, want: "one two..."},
		{name: "exact cap", in: "one two", max: 7, want: "one two"},
		{name: "cut at space", in: "abcd efgh", max: 7, want: "abcd..."},
		{name: "single long word", in: "abcdefghijkl", max: 8, want: "abcde..."},
		{name: "tiny cap", in: "abcdef", max: 2, want: "ab"},
		{name: "cyrillic runes", in: "Привет мир снова", max: 12, want: "Привет..."},
		{name: "empty", in: "   <br/>  ", max: 10, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, cleanText(tt.in, tt.max))
		})
	}
}

// TestCleanText_Properties — для любого входа с тегами: нет <...>, длина не больше max,
// при обрезке — суффикс "..." и слово не разрезано.
func TestCleanText_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<div><p>Президент заявил о <b>новых</b> мерах поддержки экономики страны</p></div>",
		"<a href=\"x\">Link</a> text <img src=\"y\"/> more text and even more words here",
		"<<script>>alert(1)<</script>> and a tail of plain words",
		strings.Repeat("<i>word</i> ", 100),
		"<p>" + strings.Repeat("слово ", 80) + "</p>",
	}

	for _, in := range inputs {
		for _, max := range []int{5, 10, 20, 37, 64, 200} {
			out := cleanText(in, max)

			require.False(t, reTag.MatchString(out), "tags left in %q", out)
			require.LessOrEqual(t, utf8.RuneCountInString(out), max)

			full := cleanText(in, 1<<20)
			if out == full {
				continue
			}

			require.True(t, strings.HasSuffix(out, ellipsis), "truncated output %q must end with ellipsis", out)

			body := strings.TrimSuffix(out, ellipsis)
			require.True(t, strings.HasPrefix(full, body))
			if strings.Contains(body, " ") {
				next, _ := utf8.DecodeRuneInString(full[len(body):])
				require.Equal(t, ' ', next, "word split in %q", out)
			}
		}
	}
}
