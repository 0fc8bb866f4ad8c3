package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "COOLDOWN_WINDOW", "GEMINI_MODEL", "SNAPSHOT_PATH",
		"FETCH_TIMEOUT", "NATS_ENABLED", "MQTT_BROKER", "CALLMEBOT_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 5427 {
		t.Errorf("Port = %d, want 5427", cfg.Port)
	}
	if cfg.CooldownWindow != 30*time.Second {
		t.Errorf("CooldownWindow = %v, want 30s", cfg.CooldownWindow)
	}
	if cfg.GeminiModel != "gemini-2.0-flash-exp" {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-2.0-flash-exp")
	}
	if cfg.SnapshotPath != "tmp.jpg" {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, "tmp.jpg")
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.NatsEnabled {
		t.Error("NatsEnabled = true, want false by default")
	}
	if cfg.MQTTBroker != "" {
		t.Errorf("MQTTBroker = %q, want empty by default", cfg.MQTTBroker)
	}
	if cfg.CallMeBotURL != "https://api.callmebot.com/whatsapp.php" {
		t.Errorf("CallMeBotURL = %q, unexpected default", cfg.CallMeBotURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COOLDOWN_WINDOW", "45s")
	t.Setenv("VOICE_ENABLED", "false")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.CooldownWindow != 45*time.Second {
		t.Errorf("CooldownWindow = %v, want 45s", cfg.CooldownWindow)
	}
	if cfg.VoiceEnabled {
		t.Error("VoiceEnabled = true, want false")
	}
}

func TestGetEnvSlice(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "media_player.kitchen", []string{"media_player.kitchen"}},
		{"multiple", "a.one,b.two", []string{"a.one", "b.two"}},
		{"spaces", " a.one , b.two ", []string{"a.one", "b.two"}},
		{"empty entries", "a.one,,b.two,", []string{"a.one", "b.two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SLICE", tt.value)

			got := getEnvSlice("TEST_SLICE", nil)
			if len(got) != len(tt.want) {
				t.Fatalf("getEnvSlice(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("getEnvSlice(%q)[%d] = %q, want %q", tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetEnvSliceDefault(t *testing.T) {
	t.Setenv("TEST_SLICE", "")

	want := []string{"fallback"}
	got := getEnvSlice("TEST_SLICE", want)
	if len(got) != 1 || got[0] != "fallback" {
		t.Errorf("getEnvSlice with unset key = %v, want %v", got, want)
	}
}

func TestGeminiAPIKeyPrecedence(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	if got := getGeminiAPIKey(); got != "google-key" {
		t.Errorf("getGeminiAPIKey() = %q, want %q", got, "google-key")
	}

	t.Setenv("GOOGLE_API_KEY", "")
	if got := getGeminiAPIKey(); got != "gemini-key" {
		t.Errorf("getGeminiAPIKey() fallback = %q, want %q", got, "gemini-key")
	}
}

func TestGetEnvDurationInvalid(t *testing.T) {
	t.Setenv("TEST_DURATION", "not-a-duration")

	if got := getEnvDuration("TEST_DURATION", 7*time.Second); got != 7*time.Second {
		t.Errorf("getEnvDuration with invalid value = %v, want 7s", got)
	}
}

func TestGetEnvBoolInvalid(t *testing.T) {
	t.Setenv("TEST_BOOL", "maybe")

	if got := getEnvBool("TEST_BOOL", true); got != true {
		t.Errorf("getEnvBool with invalid value = %v, want true", got)
	}
}
