package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateSpanish(t *testing.T) {
	ctx := initLang(t, "es")

	if got := T(ctx, "TimeUp"); got != "¡Tiempo agotado!" {
		t.Errorf("T(TimeUp) = %q", got)
	}
	if got := T(ctx, "NoTimeLimit"); got != "Sin límite" {
		t.Errorf("T(NoTimeLimit) = %q", got)
	}
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "TimeUp"); got != "Time is up!" {
		t.Errorf("T(TimeUp) = %q", got)
	}
}

func TestTemplateData(t *testing.T) {
	ctx := initLang(t, "es")

	got := Td(ctx, "WarnPoolCapped", map[string]any{"Available": 7})
	if got != "Solo hay 7 preguntas disponibles. Se usarán todas." {
		t.Errorf("Td(WarnPoolCapped) = %q", got)
	}
}

func TestMissingTranslationFallsBackToID(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("T(NoSuchMessage) = %q, want the ID itself", got)
	}
}
