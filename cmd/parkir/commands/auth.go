// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

type loginParams struct {
	GlobalFlags
	cli.JSONOutput
	Email        string `json:"email"  flag:"email"         desc:"operator email address"`
	PasswordFile string `json:"-"      flag:"password-file" desc:"read the password from this file instead of prompting"`
}

func loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Log in as a parking operator",
		Description: `Exchange an operator's email and password for a session token.

The token is stored in the kiosk database (sealed with the kiosk's age
identity when session.seal_token is set) and sent as a bearer token on
every later request. Without --password-file the password is read from
the terminal with echo disabled.`,
		Usage: "parkir login --email <address> [--password-file <path>]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively",
				Command:     "parkir login --email petugas@parkir.local",
			},
			{
				Description: "Log in from a provisioning script",
				Command:     "parkir login --email petugas@parkir.local --password-file /run/secrets/parkir",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("login", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Email == "" {
				return cli.Validation("--email is required")
			}

			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			return withApp(params.GlobalFlags, logger, func(a *app) error {
				profile, err := a.client.Login(ctx, params.Email, password)
				if err != nil {
					return cli.FromFailure(err)
				}
				if done, err := params.EmitJSON(profile); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "✅ Login berhasil. Selamat datang, %s.\n", displayName(*profile))
				return nil
			})
		},
	}
}

type logoutParams struct {
	GlobalFlags
}

func logoutCommand() *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:    "logout",
		Summary: "End the operator session",
		Description: `Tell the server the session is over and delete the stored token.

The local session is cleared even when the server cannot be reached.`,
		Usage: "parkir logout",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("logout", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				a.client.Logout(ctx)
				fmt.Fprintln(cli.Stdout, "Sesi telah diakhiri.")
				return nil
			})
		},
	}
}

type whoamiParams struct {
	GlobalFlags
	cli.JSONOutput
}

type whoamiResult struct {
	Profile   *parking.Profile `json:"profile,omitempty"`
	Server    string           `json:"server"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

func whoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in operator",
		Description: `Show the operator of the stored session, the server requests go to,
and when the session token expires.

This reads local state only and never contacts the server. The expiry
is read from the token without verifying it and is omitted when the
server issues opaque tokens.`,
		Usage: "parkir whoami [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("whoami", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}

				result := whoamiResult{Server: a.endpoint(ctx)}
				if profile, ok := a.sessions.Profile(ctx); ok {
					result.Profile = &profile
				}
				result.ExpiresAt = a.tokenExpiry(ctx)

				if done, err := params.EmitJSON(result); done {
					return err
				}

				if result.Profile != nil {
					fmt.Fprintf(cli.Stdout, "Operator:   %s <%s>\n", displayName(*result.Profile), result.Profile.Email)
					if result.Profile.Role != "" {
						fmt.Fprintf(cli.Stdout, "Peran:      %s\n", result.Profile.Role)
					}
				} else {
					fmt.Fprintln(cli.Stdout, "Operator:   (profil tidak tersimpan)")
				}
				fmt.Fprintf(cli.Stdout, "Server:     %s\n", result.Server)
				if result.ExpiresAt != nil {
					location := a.config.Location()
					remaining := result.ExpiresAt.Sub(a.clock.Now()).Round(time.Minute)
					fmt.Fprintf(cli.Stdout, "Berlaku s/d: %s (%s lagi)\n",
						result.ExpiresAt.In(location).Format("02/01/2006 15.04"), remaining)
				}
				return nil
			})
		},
	}
}

// tokenExpiry reads the exp claim of a JWT session token. Nil when the
// token is missing, opaque, or carries no expiry.
func (a *app) tokenExpiry(ctx context.Context) *time.Time {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return nil
	}
	defer token.Close()

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token.String(), &claims); err != nil {
		a.logger.Debug("session token is not a readable JWT", "error", err)
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	expires := claims.ExpiresAt.Time
	return &expires
}

func displayName(profile parking.Profile) string {
	if profile.Name != "" {
		return profile.Name
	}
	return profile.Email
}
