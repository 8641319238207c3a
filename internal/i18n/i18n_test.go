package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auriti-labs/geo-optimizer/internal/i18n"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":        "it",
		"it":      "it",
		"IT":      "it",
		"en":      "en",
		"EN":      "en",
		"en-US":   "en",
		"en_GB":   "en",
		"it-CH":   "it",
		"fr":      "it",
		"klingon": "it",
		"eo":      "it",
		"cy":      "it",
		"sw":      "it",
		"bn":      "it",
		"ga":      "it",
		"ur":      "it",
		"en-Latn": "en",
		"  en  ":  "en",
	}
	for in, want := range cases {
		assert.Equal(t, want, i18n.Normalize(in), "Normalize(%q)", in)
	}
}

func TestGetLang_FromEnv(t *testing.T) {
	t.Setenv(i18n.EnvLang, "En")
	assert.Equal(t, "en", i18n.GetLang())

	t.Setenv(i18n.EnvLang, "de")
	assert.Equal(t, i18n.DefaultLang, i18n.GetLang())

	t.Setenv(i18n.EnvLang, "")
	assert.Equal(t, i18n.DefaultLang, i18n.GetLang())
}

func TestSupportedLangs_DefaultFirst(t *testing.T) {
	t.Parallel()
	require.NotEmpty(t, i18n.SupportedLangs)
	assert.Equal(t, i18n.DefaultLang, i18n.SupportedLangs[0])
	assert.Contains(t, i18n.SupportedLangs, "en")
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	itTr := i18n.New("it")
	enTr := i18n.New("en")

	assert.Equal(t, "Non trovato", itTr.T("Not found"))
	assert.Equal(t, "Not found", enTr.T("Not found"))
	assert.Equal(t, "unknown key", itTr.T("unknown key"))
	assert.Equal(t, "Sito web Demo disponibile su https://d.test", itTr.Tf("Website %s available at %s", "Demo", "https://d.test"))
	assert.Equal(t, "Website Demo available at https://d.test", enTr.Tf("Website %s available at %s", "Demo", "https://d.test"))
}

func TestNew_Unsupported_FallsBack(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "it", i18n.New("es").Lang())
}

func TestNilTranslator_PassesThrough(t *testing.T) {
	t.Parallel()
	var tr *i18n.Translator
	assert.Equal(t, "Score", tr.T("Score"))
}

func TestSetLang_Package(t *testing.T) {
	i18n.SetLang("en")
	t.Cleanup(func() { i18n.SetLang(i18n.DefaultLang) })
	assert.Equal(t, "No schema", i18n.T("No schema"))

	i18n.SetLang("zz")
	assert.Equal(t, "Nessuno schema", i18n.T("No schema"))
	assert.Equal(t, "it", i18n.Current().Lang())
}
