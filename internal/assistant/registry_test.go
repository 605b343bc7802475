package assistant

import "testing"

func TestRegistryProfileLocales(t *testing.T) {
	reg := NewRegistry(map[string]string{"1": "asst-health"})

	en, ok := reg.Profile(CategoryHealthCoach, "en")
	if !ok {
		t.Fatal("expected English profile")
	}
	dk, ok := reg.Profile(CategoryHealthCoach, "dk")
	if !ok {
		t.Fatal("expected Danish profile")
	}
	if en.Greeting == dk.Greeting {
		t.Error("expected locale-specific greetings")
	}

	// Unknown locales fall back rather than fail.
	fallback, ok := reg.Profile(CategoryHealthCoach, "sv")
	if !ok {
		t.Fatal("expected fallback profile for unknown locale")
	}
	if fallback.Greeting != en.Greeting {
		t.Error("expected fallback to the English profile")
	}
}

func TestRegistryUnknownCategory(t *testing.T) {
	reg := NewRegistry(map[string]string{"1": "asst-health"})

	if _, ok := reg.Profile(CategoryBloodPanelAnalyst, "en"); ok {
		t.Error("expected no profile for a reserved category")
	}
	if _, ok := reg.AssistantID(CategoryBloodPanelAnalyst); ok {
		t.Error("expected no assistant id for a reserved category")
	}
}

func TestRegistrySkipsEmptyAssistantIDs(t *testing.T) {
	reg := NewRegistry(map[string]string{"1": "asst-health", "2": ""})

	if id, ok := reg.AssistantID(CategoryHealthCoach); !ok || id != "asst-health" {
		t.Errorf("expected configured id, got %q ok=%v", id, ok)
	}
	if _, ok := reg.AssistantID(CategoryBloodPanelAnalyst); ok {
		t.Error("expected empty id to be treated as unconfigured")
	}
}
