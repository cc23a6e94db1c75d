package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit profiles",
	Long: `Show your profile or another user's, and edit your own.

Examples:
  rcup profile show
  rcup profile show 6f1c0c4e-1a2b-4c3d-9e8f-001122334455
  rcup profile update --set bio="Competitive programmer" --set experience_years=4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show your profile, or the profile of user-id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update --set key=value...",
	Short: "Update fields of your role profile",
	Long: `Update fields of your role profile. Allowed keys depend on your role:

  sportsman  bio, experience_years, specialization
  sponsor    contact_email, contact_phone, organization_description, organization_name, website
  region     contact_email, contact_phone, population, region_code, region_name

Phone numbers are normalized to international format.`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var profileFlags struct {
	set []string
}

func init() {
	profileUpdateCmd.Flags().StringArrayVar(&profileFlags.set, "set", nil, "key=value to update (repeatable)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.Guard.Require(ctx); err != nil {
		return err
	}

	if len(args) == 1 {
		p, err := app.Client.Profile(ctx, args[0])
		if err != nil {
			return err
		}
		return app.render(cmd, profileView(*p))
	}

	if err := app.Profile.Load(ctx); err != nil {
		return err
	}
	p, state, err := app.Profile.Snapshot()
	if err != nil {
		return err
	}
	if p == nil {
		return rerrors.New(rerrors.ErrCodeProfileNotLoaded, fmt.Sprintf("profile is not loaded (%s)", state))
	}
	return app.render(cmd, profileView(*p))
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.Guard.Require(ctx); err != nil {
		return err
	}
	role, _ := app.Guard.Role(ctx)

	if len(profileFlags.set) == 0 {
		return fmt.Errorf("nothing to update: pass --set key=value (allowed keys: %s)", strings.Join(api.ProfileKeys(role), ", "))
	}
	partial, err := parseAssignments(profileFlags.set)
	if err != nil {
		return err
	}

	if err := app.Profile.Load(ctx); err != nil {
		return err
	}
	if _, err := app.Profile.Update(ctx, role, partial); err != nil {
		return err
	}
	app.notice(cmd, "Profile updated")

	if p := app.Profile.Profile(); p != nil {
		return app.render(cmd, profileView(*p))
	}
	return nil
}

// parseAssignments turns key=value pairs into a typed partial update.
func parseAssignments(pairs []string) (map[string]any, error) {
	partial := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, rerrors.NewValidationError("profile update", fmt.Errorf("%q is not key=value", pair))
		}
		value, err := api.ParseProfileValue(key, raw)
		if err != nil {
			return nil, rerrors.NewValidationError("profile update", err)
		}
		partial[key] = value
	}
	return partial, nil
}
