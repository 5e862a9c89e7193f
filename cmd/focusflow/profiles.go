package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/focusflow/backend"
)

func newProfilesCmd(opts *globalOptions) *cobra.Command {
	profiles := &cobra.Command{Use: "profiles", Short: "Manage player profiles on the backend"}

	profiles.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List this therapist's profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			client, err := a.online()
			if err != nil {
				return err
			}
			therapistID, err := a.identity.TherapistID(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.ListProfiles(cmd.Context(), therapistID)
			if err != nil {
				return err
			}
			active, _ := a.identity.ActiveProfile(cmd.Context())

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				_, _ = fmt.Fprintln(out, "no profiles")
				return nil
			}
			for _, p := range list {
				mark := " "
				if active != nil && active.ProfileID == p.ProfileID {
					mark = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s  %s, age %d, %s\n", mark, p.ProfileID, p.Name, p.Age, p.Gender)
			}
			return nil
		},
	})

	var in backend.ProfileInput
	var gender string
	var weight, height float64
	var use bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			client, err := a.online()
			if err != nil {
				return err
			}
			if in.TherapistID, err = a.identity.TherapistID(cmd.Context()); err != nil {
				return err
			}
			in.Gender = backend.Gender(strings.ToLower(gender))
			if weight > 0 {
				in.Weight = &weight
			}
			if height > 0 {
				in.Height = &height
			}

			p, err := client.CreateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", p.ProfileID, p.Name)
			if use {
				if err := a.identity.SetActiveProfile(cmd.Context(), *p); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active profile: %s\n", p.ProfileID)
			}
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "player name")
	create.Flags().IntVar(&in.Age, "age", 0, "player age, 3-18")
	create.Flags().StringVar(&gender, "gender", "", "male|female|other|prefer-not-to-say")
	create.Flags().Float64Var(&weight, "weight", 0, "weight in kg (optional)")
	create.Flags().Float64Var(&height, "height", 0, "height in cm (optional)")
	create.Flags().BoolVar(&use, "use", false, "make the new profile active")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("age")
	profiles.AddCommand(create)

	profiles.AddCommand(&cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			client, err := a.online()
			if err != nil {
				return err
			}
			therapistID, err := a.identity.TherapistID(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteProfile(cmd.Context(), therapistID, args[0]); err != nil {
				return err
			}
			if err := a.identity.ForgetProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	profiles.AddCommand(&cobra.Command{
		Use:   "use <profile-id>",
		Short: "Select the profile sessions are uploaded for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()
			client, err := a.online()
			if err != nil {
				return err
			}
			therapistID, err := a.identity.TherapistID(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.ListProfiles(cmd.Context(), therapistID)
			if err != nil {
				return err
			}
			for _, p := range list {
				if p.ProfileID == args[0] {
					if err := a.identity.SetActiveProfile(cmd.Context(), p); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active profile: %s (%s)\n", p.ProfileID, p.Name)
					return nil
				}
			}
			return fmt.Errorf("profile %s not found for therapist %s", args[0], therapistID)
		},
	})
	return profiles
}
