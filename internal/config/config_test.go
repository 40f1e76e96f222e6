package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-wecomflow/pkg/binding"
)

var allEnv = []string{
	"WECOM_BASE_URL", KeyCorpID, KeySecret, KeySecretFile, KeyAgentID, KeyDefaultUserID,
	KeyTemplateOvertime, KeyTemplateExpense, KeyTemplateInvoice,
	"WECOM_EXPENSE_PROJECT_KEY", "WECOM_REMIND_LOOKBACK_DAYS", "WECOM_REPORT_DIR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
	}
	for k := range categoryEnv {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sample = `version: 1
corp_id: ww-file
secret: file-secret
agent_id: 1000002
default_user_id: zhangsan
templates:
  overtime: tpl-ot
  expense: tpl-ex
expense:
  project_key: option-project
  category_keys:
    overtime-night: option-night
remind:
  lookback_days: 7
`

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "wecomflow.yaml", sample)
	t.Setenv(KeyCorpID, "ww-env")
	t.Setenv("WECOM_EXPENSE_CATEGORY_LODGING_KEY", "option-lodging")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ww-env", cfg.CorpID)
	assert.Equal(t, "file-secret", cfg.Secret)
	assert.Equal(t, 1000002, cfg.AgentID)
	assert.Equal(t, "tpl-ot", cfg.Templates.Overtime)
	assert.Equal(t, 7, cfg.Remind.LookbackDays)
	assert.Equal(t, binding.CategoryKeys{
		binding.CategoryOvertimeNight: "option-night",
		binding.CategoryLodging:       "option-lodging",
	}, cfg.CategoryKeys())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLookbackDays, cfg.Remind.LookbackDays)
	assert.Empty(t, cfg.CorpID)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "version: 2\n"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = Load(writeFile(t, "broken.yaml", "corp_id: [\n"))
	assert.Error(t, err)

	t.Setenv(KeyAgentID, "abc")
	_, err = Load("")
	assert.ErrorContains(t, err, KeyAgentID)
}

func TestLoad_SecretPrecedence(t *testing.T) {
	secretFile := writeFile(t, "secret.txt", "from-env-file\n")
	yamlFile := writeFile(t, "yaml-secret.txt", "  from-yaml-file  \n")

	tests := []struct {
		name    string
		env     map[string]string
		yaml    string
		want    string
		wantErr error
	}{
		{name: "inline", yaml: "secret: inline", want: "inline"},
		{name: "yaml file beats inline", yaml: "secret: inline\nsecret_file: " + yamlFile, want: "from-yaml-file"},
		{name: "env beats yaml", env: map[string]string{KeySecret: "from-env"}, yaml: "secret_file: " + yamlFile, want: "from-env"},
		{name: "env file beats env", env: map[string]string{KeySecret: "from-env", KeySecretFile: secretFile}, want: "from-env-file"},
		{name: "empty file", env: map[string]string{KeySecretFile: writeFile(t, "blank.txt", " \n")}, wantErr: ErrEmptySecret},
		{name: "missing file", yaml: "secret: inline\nsecret_file: " + filepath.Join(t.TempDir(), "missing"), wantErr: os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeFile(t, "wecomflow.yaml", "version: 1\n"+tt.yaml+"\n"))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Secret)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{CorpID: "ww", Secret: "s"}
	cfg.Templates.Overtime = "tpl"

	require.NoError(t, cfg.Validate(KeyCorpID, KeySecret, KeyTemplateOvertime))

	err := cfg.Validate(KeyCorpID, KeyDefaultUserID, KeyTemplateExpense)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "WECOM_DEFAULT_USER_ID, WECOM_TEMPLATE_EXPENSE")
}
