package content

import "testing"

func TestToFormStateAllLanguagesDefined(t *testing.T) {
	state := ToFormState(Entity{Title: "Konti Kan", Description: "Corrugated pipe"})

	if len(state.Translations) != len(SupportedLanguages) {
		t.Fatalf("form state has %d entries, want %d", len(state.Translations), len(SupportedLanguages))
	}
	for _, lang := range SupportedLanguages {
		if _, ok := state.Translations[lang]; !ok {
			t.Errorf("missing entry for language %q", lang)
		}
	}
}

func TestToFormStateSeedsDefaultFromCanonical(t *testing.T) {
	// Entities created before the translations feature existed have no
	// translations map; the default-language entry is seeded from the
	// canonical fields so editing does not lose them.
	state := ToFormState(Entity{Title: "Konti Kan", Description: "Corrugated pipe"})

	if got := state.Title(LangEN); got != "Konti Kan" {
		t.Errorf("Title(en) = %q, want %q", got, "Konti Kan")
	}
	if got := state.Description(LangEN); got != "Corrugated pipe" {
		t.Errorf("Description(en) = %q, want %q", got, "Corrugated pipe")
	}
}

func TestToFormStatePrefersExistingTranslation(t *testing.T) {
	state := ToFormState(Entity{
		Title: "Canonical",
		Translations: TranslationMap{
			LangEN: {Title: "Structured"},
		},
	})

	if got := state.Title(LangEN); got != "Structured" {
		t.Errorf("Title(en) = %q, want %q", got, "Structured")
	}
}

func TestRoundTripPreservesUntouchedTranslations(t *testing.T) {
	original := Entity{
		Title:       "Socket",
		Description: "Push-fit socket",
		Translations: TranslationMap{
			LangMK: {Title: "Муфа", Description: "Спојка за цевки"},
			LangDE: {Title: "Muffe"},
		},
	}

	persisted := ToFormState(original).ToPersistedShape()

	// Editing nothing must leave every non-default translation entry
	// identical to its pre-edit value.
	for _, lang := range []LanguageCode{LangMK, LangDE} {
		if persisted.Translations[lang] != original.Translations[lang] {
			t.Errorf("translations[%q] = %+v, want %+v",
				lang, persisted.Translations[lang], original.Translations[lang])
		}
	}
	if persisted.Title != original.Title {
		t.Errorf("canonical title = %q, want %q", persisted.Title, original.Title)
	}
}

func TestEditSingleLanguageLeavesOthersAlone(t *testing.T) {
	original := Entity{
		Title: "Socket",
		Translations: TranslationMap{
			LangMK: {Title: "Муфа"},
			LangDE: {Title: "Muffe"},
		},
	}

	state := ToFormState(original).WithTitle(LangEN, "Coupling socket")
	persisted := state.ToPersistedShape()

	if persisted.Title != "Coupling socket" {
		t.Errorf("canonical title = %q, want %q", persisted.Title, "Coupling socket")
	}
	if persisted.Translations[LangMK] != original.Translations[LangMK] {
		t.Errorf("mk entry changed: %+v", persisted.Translations[LangMK])
	}
	if persisted.Translations[LangDE] != original.Translations[LangDE] {
		t.Errorf("de entry changed: %+v", persisted.Translations[LangDE])
	}
}

func TestWithTitleDoesNotMutateReceiver(t *testing.T) {
	base := ToFormState(Entity{Title: "Original"})
	edited := base.WithTitle(LangMK, "Нов наслов")

	if got := base.Title(LangMK); got != "" {
		t.Errorf("receiver mutated: Title(mk) = %q", got)
	}
	if got := edited.Title(LangMK); got != "Нов наслов" {
		t.Errorf("edited Title(mk) = %q, want %q", got, "Нов наслов")
	}
}

func TestToPersistedShapeNoPruning(t *testing.T) {
	// Clearing a field submits the empty string rather than dropping the
	// entry; normalization is the persistence layer's call.
	state := ToFormState(Entity{
		Title:        "Socket",
		Translations: TranslationMap{LangMK: {Title: "Муфа"}},
	}).WithTitle(LangMK, "")

	persisted := state.ToPersistedShape()

	if _, ok := persisted.Translations[LangMK]; !ok {
		t.Error("cleared mk entry was pruned from the persisted shape")
	}
	for _, lang := range SupportedLanguages {
		if _, ok := persisted.Translations[lang]; !ok {
			t.Errorf("language %q missing from persisted translations", lang)
		}
	}
}

func TestToPersistedShapeClearedTitleIsAcceptedInput(t *testing.T) {
	// An empty derived canonical title is not an error here; the form layer
	// treats it as a required-field validation failure.
	state := ToFormState(Entity{Title: "Socket"}).WithTitle(LangEN, "")

	if got := state.ToPersistedShape().Title; got != "" {
		t.Errorf("canonical title = %q, want empty string", got)
	}
}
