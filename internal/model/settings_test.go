package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEmailSettingsViewFlagsKeyPresence(t *testing.T) {
	withKey := EmailSettings{Provider: "brevo", APIKey: "xkeysib-secret"}
	if !withKey.View().HasAPIKey {
		t.Error("HasAPIKey = false for configured key")
	}

	withoutKey := EmailSettings{Provider: "brevo"}
	if withoutKey.View().HasAPIKey {
		t.Error("HasAPIKey = true for missing key")
	}
}

func TestEmailSettingsNeverSerializesKey(t *testing.T) {
	s := EmailSettings{Provider: "brevo", APIKey: "xkeysib-secret", NotifyTo: "sales@example.com"}

	for _, v := range []any{s, s.View()} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if strings.Contains(string(data), "xkeysib-secret") {
			t.Errorf("API key leaked into JSON: %s", data)
		}
	}
}
