package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
)

const fixtures = `
- id: r1
  content_type: recipe
  fields:
    slug: pasta-bake
    title: Pasta Bake
    cookingTime: 40
    ingredients: [pasta, cheese]
- id: r2
  content_type: recipe
  fields:
    slug: lemon-cake
    title: Lemon Cake
    ingredients: [lemons, flour]
`

func writeConfig(t *testing.T) (cfgPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "recipes.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtures), 0o600))
	outDir = filepath.Join(dir, "site")
	cfgPath = filepath.Join(dir, "recipebook.yaml")
	body := fmt.Sprintf("content:\n  fixtures: %s\noutput:\n  directory: %s\n", fixturePath, outDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	return cfgPath, outDir
}

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("recipebook"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	return parser
}

func TestParseFlags(t *testing.T) {
	cli := &CLI{}
	parser := newParser(t, cli)

	kctx, err := parser.Parse([]string{"-c", "site.yaml", "build", "-o", "public", "--no-clean"})
	require.NoError(t, err)
	require.Equal(t, "build", kctx.Command())
	require.Equal(t, "site.yaml", cli.Config)
	require.Equal(t, "public", cli.Build.Output)
	require.True(t, cli.Build.NoClean)

	cli = &CLI{}
	parser = newParser(t, cli)
	kctx, err = parser.Parse([]string{"serve", "-p", "9000", "--admin-port", "9001"})
	require.NoError(t, err)
	require.Equal(t, "serve", kctx.Command())
	require.Equal(t, "recipebook.yaml", cli.Config)
	require.Equal(t, 9000, cli.Serve.Port)
	require.Equal(t, 9001, cli.Serve.AdminPort)
}

func TestParseRevalidateTargetsAreExclusive(t *testing.T) {
	parser := newParser(t, &CLI{})
	_, err := parser.Parse([]string{"revalidate", "--slug", "a", "--path", "/"})
	require.Error(t, err)
}

func TestBuildWritesSite(t *testing.T) {
	cfgPath, outDir := writeConfig(t)
	g := &Global{}

	require.NoError(t, (&BuildCmd{}).Run(g, &CLI{Config: cfgPath}))
	require.NotNil(t, g.Logger)
	require.FileExists(t, filepath.Join(outDir, "index.html"))
	require.FileExists(t, filepath.Join(outDir, "recipes", "pasta-bake", "index.html"))
	require.FileExists(t, filepath.Join(outDir, "recipes", "lemon-cake", "index.html"))
	require.FileExists(t, filepath.Join(outDir, "404.html"))
}

func TestBuildOutputOverride(t *testing.T) {
	cfgPath, outDir := writeConfig(t)
	override := filepath.Join(t.TempDir(), "public")

	require.NoError(t, (&BuildCmd{Output: override}).Run(&Global{}, &CLI{Config: cfgPath}))
	require.FileExists(t, filepath.Join(override, "index.html"))
	require.NoDirExists(t, outDir)
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	printRoutes(&buf, &recipes.Routes{
		Slugs:      []string{"a", "b", "a"},
		Duplicates: []string{"a"},
		Fallback:   recipes.FallbackGenerateOnDemand,
	})
	require.Equal(t, "/\n/recipes/a\n/recipes/b\nduplicate slug: a\nfallback: generate-on-demand\n", buf.String())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipebook.yaml")
	root := &CLI{Config: path}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	require.FileExists(t, path)

	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, derrors.CategoryConfig, classified.Category())

	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func TestRevalidateNeedsTarget(t *testing.T) {
	err := (&RevalidateCmd{}).Run(&Global{}, &CLI{})
	require.Error(t, err)
	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, derrors.CategoryValidation, classified.Category())
}

func TestRevalidateNeedsNATSURL(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	err := (&RevalidateCmd{Slug: "pasta-bake"}).Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, derrors.CategoryConfig, classified.Category())
}
