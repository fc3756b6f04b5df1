package serverinfofile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/mta-lsp/idl/mock/configmock"
	"github.com/uber/mta-lsp/src/mtalsp/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{
			name:   "all required params are present",
			config: "valid",
		},
		{
			name:    "config processing error",
			config:  "missingKey",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifecycle := fxtest.NewLifecycle(t)
			_, err := New(Params{
				Lifecycle: lifecycle,
				Config:    newMockConfigProvider(ctrl, tt.config),
				FS:        fs.New(),
				Logger:    zap.NewNop().Sugar(),
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLifecycle(t *testing.T) {
	infofile := filepath.Join(t.TempDir(), "nested", ".mtalspd")
	provider, err := config.NewStaticProvider(map[string]interface{}{_configKeyInfoFile: infofile})
	require.NoError(t, err)

	lifecycle := fxtest.NewLifecycle(t)
	f, err := New(Params{
		Lifecycle: lifecycle,
		Config:    provider,
		FS:        fs.New(),
		Logger:    zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	lifecycle.RequireStart()
	require.NoError(t, f.UpdateField("lsp-address", "127.0.0.1:5859"))
	contents, err := os.ReadFile(infofile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lsp-address":"127.0.0.1:5859"}`, string(contents))

	lifecycle.RequireStop()
	_, err = os.Stat(infofile)
	assert.True(t, os.IsNotExist(err))
}

func TestOnStop(t *testing.T) {
	t.Run("nothing written", func(t *testing.T) {
		m := module{
			fs:       fs.New(),
			logger:   zap.NewNop().Sugar(),
			infofile: filepath.Join(t.TempDir(), "missing"),
		}
		assert.NoError(t, m.OnStop(context.Background()))
	})

	t.Run("file removed", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), ".mtalspd")
		m := module{
			fs:           fs.New(),
			logger:       zap.NewNop().Sugar(),
			infofile:     infofile,
			fileContents: make(map[string]string),
		}
		require.NoError(t, m.UpdateField("key", "value"))

		assert.NoError(t, m.OnStop(context.Background()))
		_, err := os.Stat(infofile)
		assert.True(t, os.IsNotExist(err))

		// A second stop is a no-op.
		assert.NoError(t, m.OnStop(context.Background()))
	})

	t.Run("file removal error", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), ".mtalspd")
		m := module{
			fs:           fs.New(),
			logger:       zap.NewNop().Sugar(),
			infofile:     infofile,
			fileContents: make(map[string]string),
		}
		require.NoError(t, m.UpdateField("key", "value"))
		require.NoError(t, os.Remove(infofile))

		assert.Error(t, m.OnStop(context.Background()))
	})
}

func TestUpdateField(t *testing.T) {
	t.Run("multiple successful updates", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), ".mtalspd")
		m := module{
			infofile:     infofile,
			fs:           fs.New(),
			logger:       zap.NewNop().Sugar(),
			fileContents: make(map[string]string),
		}

		steps := []struct {
			key        string
			value      string
			expectJSON string
		}{
			{key: "key1", value: "value1", expectJSON: `{"key1":"value1"}`},
			{key: "key1", value: "value2", expectJSON: `{"key1":"value2"}`},
			{key: "key2", value: "value2", expectJSON: `{"key1":"value2","key2":"value2"}`},
			{key: "key1", value: "value3", expectJSON: `{"key1":"value3","key2":"value2"}`},
		}

		for _, step := range steps {
			require.NoError(t, m.UpdateField(step.key, step.value))
			assert.Equal(t, step.value, m.fileContents[step.key])
			contents, err := os.ReadFile(infofile)
			require.NoError(t, err)
			assert.Equal(t, step.expectJSON, string(contents))
		}
	})

	t.Run("file write failure", func(t *testing.T) {
		m := module{
			infofile:     t.TempDir(),
			fs:           fs.New(),
			logger:       zap.NewNop().Sugar(),
			fileContents: make(map[string]string),
		}
		assert.Error(t, m.UpdateField("key", "value"))
	})
}

func TestProcessConfig(t *testing.T) {
	tests := []struct {
		name        string
		configKey   string
		wantErr     bool
		errorString string
	}{
		{
			name:      "valid configuration",
			configKey: "valid",
		},
		{
			name:        "missing path key",
			configKey:   "missingKey",
			wantErr:     true,
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:        "missing path value",
			configKey:   "missingValue",
			wantErr:     true,
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:      "incorrectly formatted entry",
			configKey: "formatProblem",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newMockConfigProvider(gomock.NewController(t), tt.configKey)

			m := module{logger: zap.NewNop().Sugar()}
			err := m.processConfig(cfg)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errorString != "" {
					assert.Equal(t, tt.errorString, err.Error())
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "/my/sample/path/.mtalspd", m.infofile)
			}
		})
	}
}

func newMockConfigProvider(ctrl *gomock.Controller, configKey string) config.Provider {
	configs := map[string]string{
		"valid": `
serverInfoFilePath: /my/sample/path/.mtalspd
`,
		"missingKey": `
otherKey: /my/sample/path/.mtalspd
`,
		"missingValue": `
serverInfoFilePath:
otherKey: sample
`,
		"formatProblem": `
serverInfoFilePath:
  address:
    key: val`,
	}

	yamlProv, _ := config.NewYAML(config.Source(strings.NewReader(configs[configKey])))
	configProviderMock := configmock.NewMockProvider(ctrl)
	configProviderMock.EXPECT().Get(_configKeyInfoFile).Return(yamlProv.Get(_configKeyInfoFile)).AnyTimes()
	return configProviderMock
}
