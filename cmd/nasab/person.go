package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/pkg/types"
)

type personAddFlags struct {
	gender    string
	birthDate string
	deceased  bool
}

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage the person directory",
	}
	cmd.AddCommand(newPersonAddCmd(), newPersonShowCmd())
	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var flags personAddFlags

	cmd := &cobra.Command{
		Use:   "add <person-id>",
		Short: "Add or update a person record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonAdd(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.gender, "gender", "g", "", "Gender (MALE, FEMALE)")
	cmd.Flags().StringVarP(&flags.birthDate, "birth", "b", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.deceased, "deceased", false, "Mark the person as deceased")

	return cmd
}

func runPersonAdd(cmd *cobra.Command, id string, flags personAddFlags) error {
	birth, err := parseDateFlag(flags.birthDate)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		person := &types.Person{
			ID:        id,
			Gender:    flags.gender,
			BirthDate: birth,
			IsAlive:   !flags.deceased,
		}
		if err := d.Persons.PutPerson(ctx, person); err != nil {
			return err
		}
		fmt.Printf("Saved person %s\n", id)
		return nil
	})
}

func newPersonShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <person-id>",
		Short: "Show a person record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonShow(cmd, args[0])
		},
	}
}

func runPersonShow(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.GetPerson(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("Person %s\n", person.ID)
		if person.Gender != "" {
			fmt.Printf("  Gender: %s\n", person.Gender)
		}
		if person.BirthDate != nil {
			fmt.Printf("  Born:   %s\n", person.BirthDate.Format("2006-01-02"))
		}
		if !person.IsAlive {
			fmt.Println("  Deceased")
		}
		return nil
	})
}
