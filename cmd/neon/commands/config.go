package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/neondatabase/neon-api-go/internal/constants"
)

// Config represents the persisted CLI configuration.
type Config struct {
	APIKey  string `json:"api_key,omitempty"  yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Output  string `json:"output,omitempty"   yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the API key, API root and default output format of the Neon CLI",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetAPIKeyCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the resolved CLI configuration. The API key is masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = maskAPIKey(config.APIKey)

			return render(cmd, propertyRenderer(func(c *Config) [][]string {
				return [][]string{
					{"API Key", valueOrNA(c.APIKey)},
					{"Base URL", valueOrNA(c.BaseURL)},
					{"Output", valueOrNA(c.Output)},
					{"Config File", valueOrNA(viper.ConfigFileUsed())},
				}
			}), config)
		},
	}
}

func newConfigSetAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-api-key [KEY]",
		Short: "Store the API key",
		Long:  "Store the API key in the config file. Without an argument the key is read from the terminal or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string

			if len(args) == 1 {
				key = args[0]
			} else {
				read, err := readSecret(cmd, "API key: ")
				if err != nil {
					return err
				}

				key = read
			}

			key = strings.TrimSpace(key)
			if key == "" {
				return constants.ErrEmptyAPIKey
			}

			config := loadConfig()
			config.APIKey = key

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key saved")

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set base_url or output in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch key, value := args[0], args[1]; key {
			case KeyBaseURL:
				config.BaseURL = value
			case KeyOutput:
				switch value {
				case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
					config.Output = value
				default:
					return fmt.Errorf("%w: %q", constants.ErrUnsupportedOutput, value)
				}
			default:
				return fmt.Errorf("unknown config key %q, use base_url or output", key)
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		APIKey:  viper.GetString(KeyAPIKey),
		BaseURL: viper.GetString(KeyBaseURL),
		Output:  viper.GetString(KeyOutput),
	}
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, constants.ConfigDirName)

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, constants.ConfigFileName+"."+constants.ConfigFileType)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(KeyAPIKey, config.APIKey)
	viper.Set(KeyBaseURL, config.BaseURL)

	return nil
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

		secretBytes, err := term.ReadPassword(int(syscall.Stdin))

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return string(secretBytes), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return line, nil
}

func maskAPIKey(key string) string {
	const visible = 4

	if len(key) <= visible {
		return strings.Repeat("*", len(key))
	}

	return strings.Repeat("*", len(key)-visible) + key[len(key)-visible:]
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
