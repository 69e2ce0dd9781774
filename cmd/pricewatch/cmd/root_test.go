package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pricewatch/internal/producturl"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestResolveCmd_Args(t *testing.T) {
	out, _, err := run(t, "", "resolve", "look:", "https://www.ozon.ru/product/42")
	require.NoError(t, err)

	var o producturl.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	require.Equal(t, producturl.KindResolved, o.Kind)
	require.Equal(t, "7bb40729dde6700a1540e342904e73696d3ffdb5ed222b7c4a69d3181d78d87f", o.Fingerprint)
}

func TestResolveCmd_Stdin(t *testing.T) {
	out, _, err := run(t, "nothing here", "resolve")
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"no_url_found"}`, out)
}

func TestImportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"https://www.ozon.ru/product/42",
		"",
		"https://example.com/item/1",
		"just text",
	}, "\n")), 0o644))

	out, errOut, err := run(t, "", "import", "--file", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "line\tkind\tshop\tcanonical_url\tfingerprint", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "1\tresolved\tozon\thttps://www.ozon.ru/product/42\t"))
	require.Equal(t, "3\tunsupported_shop\t\t\t", lines[2])
	require.Equal(t, "4\tno_url_found\t\t\t", lines[3])

	require.Contains(t, errOut, "processed 3 lines")
	require.Contains(t, errOut, "resolved=1")
}

func TestImportCmd_RequiresFile(t *testing.T) {
	_, _, err := run(t, "", "import")
	require.ErrorIs(t, err, errUsage)
}

func TestShopsCmd(t *testing.T) {
	out, _, err := run(t, "", "shops", "-q", "iphone")
	require.NoError(t, err)
	require.Contains(t, out, "ozon")
	require.Contains(t, out, "https://www.ozon.ru/search/?text=iphone")
}

func TestShopsCmd_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`shops:
  - name: demo
    canonical_domain: shop.example
    single_product_pattern: '^shop\.example/p/\d+$'
`), 0o644))

	out, _, err := run(t, "", "--shops-file", path, "shops")
	require.NoError(t, err)
	require.Contains(t, out, "demo")
	require.NotContains(t, out, "ozon")

	out, _, err = run(t, "", "--shops-file", path, "resolve", "https://shop.example/p/7")
	require.NoError(t, err)
	require.Contains(t, out, `"shop":"demo"`)
}

func TestShopsCmd_YAMLRoundTrips(t *testing.T) {
	out, _, err := run(t, "", "shops", "-o", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "canonical_domain: www.ozon.ru")

	path := filepath.Join(t.TempDir(), "exported.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	got, _, err := run(t, "", "--shops-file", path, "resolve", "https://ozon.ru/product/42")
	require.NoError(t, err)
	require.Contains(t, got, "7bb40729dde6700a1540e342904e73696d3ffdb5ed222b7c4a69d3181d78d87f")
}

func TestShopsCmd_UnknownOutput(t *testing.T) {
	_, _, err := run(t, "", "shops", "-o", "csv")
	require.ErrorIs(t, err, errUsage)
}

func TestImportCmd_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "links.txt")
	require.NoError(t, os.WriteFile(in, []byte("https://www.ozon.ru/product/42\njust text\n"), 0o644))
	book := filepath.Join(dir, "report.xlsx")

	_, _, err := run(t, "", "import", "--file", in, "--xlsx", book)
	require.NoError(t, err)

	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(importSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"line", "kind", "shop", "canonical_url", "fingerprint"}, rows[0])
	require.Equal(t, []string{"1", "resolved", "ozon", "https://www.ozon.ru/product/42", "7bb40729dde6700a1540e342904e73696d3ffdb5ed222b7c4a69d3181d78d87f"}, rows[1])
	require.Equal(t, []string{"2", "no_url_found"}, rows[2][:2])
}
