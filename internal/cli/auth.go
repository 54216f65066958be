package cli

import (
	"eisenhower-matrix/internal/apiclient"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/config"
	"eisenhower-matrix/internal/gateway"
	"eisenhower-matrix/internal/models"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var apiURL, email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the API and remember its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.apiURL(apiURL)
			if err != nil {
				return err
			}

			result, err := apiclient.New(url, "").Register(cmd.Context(), models.Credentials{
				Email:    email,
				Password: password,
				FullName: name,
			})
			if err != nil {
				return err
			}
			if err := a.remember(url, result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", result.User.Email, result.User.FullName)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to the configured one)")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password, at least 6 characters")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var apiURL, email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the API and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.apiURL(apiURL)
			if err != nil {
				return err
			}

			result, err := apiclient.New(url, "").Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.remember(url, result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", result.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to the configured one)")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and fall back to local mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.mode == gateway.ModeRemote {
				// the server only acknowledges; a failure here must not keep the token
				if err := a.api().Logout(cmd.Context()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", apperr.Message(err, err.Error()))
				}
			}

			err := config.UpdateClient(a.configPath, func(cfg *config.ClientConfig) {
				cfg.API.Token = ""
				cfg.User = config.UserConfig{}
			})
			if err != nil {
				return apperr.Configuration("failed to save config", err)
			}
			a.cfg.API.Token = ""
			a.cfg.User = config.UserConfig{}
			a.session.Clear()

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where tasks are stored and who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode:    %s\n", a.mode)
			fmt.Fprintf(out, "Session: %s\n", a.session.State())
			if a.mode == gateway.ModeRemote {
				fmt.Fprintf(out, "API:     %s\n", a.cfg.API.URL)
				profile, err := a.api().Profile(cmd.Context())
				if err != nil {
					fmt.Fprintf(out, "User:    unavailable (%s)\n", apperr.Message(err, err.Error()))
				} else {
					fmt.Fprintf(out, "User:    %s <%s>\n", profile.FullName, profile.Email)
				}
			}
			fmt.Fprintf(out, "Data:    %s\n", a.cfg.DataPath)
			return nil
		},
	}
}

func newPrefsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prefs",
		Short: "Show the display preferences stored on the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := models.DefaultPreferences(a.session.UserID())
			if a.mode == gateway.ModeRemote {
				var err error
				if prefs, err = a.api().Preferences(cmd.Context()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Default view:  %s\n", prefs.DefaultView)
			fmt.Fprintf(out, "Color theme:   %s\n", prefs.TaskColorTheme)
			fmt.Fprintf(out, "Notifications: %t\n", prefs.NotificationsEnabled)
			fmt.Fprintf(out, "Auto save:     %t\n", prefs.AutoSave)
			return nil
		},
	}
}

func (a *app) apiURL(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.API.URL != "" {
		return a.cfg.API.URL, nil
	}
	return "", apperr.Configuration("no API URL configured; pass --api or set EISENHOWER_API_URL", nil)
}

// remember stores the token of a successful register or login in the config
// file so later invocations run in remote mode.
func (a *app) remember(url string, result models.AuthResult) error {
	user := config.UserConfig{ID: result.User.ID, Email: result.User.Email}
	err := config.UpdateClient(a.configPath, func(cfg *config.ClientConfig) {
		cfg.API.URL = url
		cfg.API.Token = result.Token
		cfg.User = user
	})
	if err != nil {
		return apperr.Configuration("failed to save config", err)
	}

	a.cfg.API.URL = url
	a.cfg.API.Token = result.Token
	a.cfg.User = user
	return a.session.Authenticate(result.User.ID, result.User.Email, result.Token)
}
