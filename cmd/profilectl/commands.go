package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janisto/profile-editor/internal/form"
	"github.com/janisto/profile-editor/internal/gateway"
)

var errInvalidProfile = errors.New("profile is invalid")

// fieldOrder is the display order of form fields.
var fieldOrder = []form.Field{
	form.FieldFirstName,
	form.FieldLastName,
	form.FieldAge,
	form.FieldEmail,
	form.FieldSkills,
}

// load runs Initialize. A missing profile is not fatal: the form stays empty
// so edit can create one.
func (s *session) load(w io.Writer) error {
	err := s.form.Initialize(s.ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, gateway.ErrNotFound) {
		printWarning(w, "no profile stored yet, starting from an empty form")
		return nil
	}
	printError(w, "%s", s.form.LoadError())
	return err
}

// --- show ---

func newShowCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			if err := s.form.Initialize(s.ctx); err != nil {
				printError(cmd.ErrOrStderr(), "%s", s.form.LoadError())
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s.form.Snapshot())
			}
			printValues(cmd.OutOrStdout(), s.form.Values())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}

// --- edit ---

type editFlags struct {
	firstName   string
	lastName    string
	age         string
	email       string
	addSkills   []string
	selectSkill []string
	newSkills   []string
	removeSkill []int
	dryRun      bool
}

func newEditCmd(g *globalFlags) *cobra.Command {
	f := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change profile fields and save",
		Long: `Load the profile, apply the given changes and save it.

Skill indexes passed to --remove-skill refer to the list as loaded, before
any skill is added. The profile is validated before it is sent; nothing is
saved when a field is invalid.

Examples:
  profilectl edit --last-name Smith
  profilectl edit --select-skill Angular --new-skill Rust
  profilectl edit --remove-skill 0 --remove-skill 2 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			stderr := cmd.ErrOrStderr()
			if err := s.load(stderr); err != nil {
				return err
			}
			if err := f.apply(cmd, s.form); err != nil {
				return err
			}

			if f.dryRun {
				printValues(cmd.OutOrStdout(), s.form.Values())
				return reportValidation(stderr, s.form)
			}

			err = s.form.Save(s.ctx)
			var invalid *form.InvalidFormError
			if errors.As(err, &invalid) {
				printFieldErrors(stderr, invalid.Messages)
				return errInvalidProfile
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.firstName, "first-name", "", "first name")
	fl.StringVar(&f.lastName, "last-name", "", "last name")
	fl.StringVar(&f.age, "age", "", "age in years (18 or older)")
	fl.StringVar(&f.email, "email", "", "email address")
	fl.StringSliceVar(&f.addSkills, "add-skill", nil, "append a skill (repeatable)")
	fl.StringSliceVar(&f.selectSkill, "select-skill", nil, "pick a skill from the suggestions (repeatable)")
	fl.StringSliceVar(&f.newSkills, "new-skill", nil, "type a skill that is not suggested yet (repeatable)")
	fl.IntSliceVar(&f.removeSkill, "remove-skill", nil, "remove the skill at this index (repeatable)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "validate and print the result without saving")
	return cmd
}

// apply feeds the flags into the form the way a UI would: one edit at a time.
func (f *editFlags) apply(cmd *cobra.Command, c *form.Controller) error {
	stderr := cmd.ErrOrStderr()
	fields := []struct {
		flag  string
		field form.Field
		value string
	}{
		{"first-name", form.FieldFirstName, f.firstName},
		{"last-name", form.FieldLastName, f.lastName},
		{"age", form.FieldAge, f.age},
		{"email", form.FieldEmail, f.email},
	}
	for _, fv := range fields {
		if !cmd.Flags().Changed(fv.flag) {
			continue
		}
		if err := c.SetField(fv.field, fv.value); err != nil {
			return err
		}
	}

	// Highest index first so earlier removals do not shift later ones.
	indexes := slices.Clone(f.removeSkill)
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
	for _, i := range slices.Compact(indexes) {
		if !c.RemoveSkill(i) {
			printWarning(stderr, "no skill at index %d", i)
		}
	}

	for _, v := range f.addSkills {
		if !c.AddSkill(v) {
			printWarning(stderr, "skill %q is blank or already listed", v)
		}
	}
	for _, v := range f.selectSkill {
		if !slices.Contains(c.Suggestions(), v) {
			printWarning(stderr, "%q is not a suggestion, use --new-skill", v)
			continue
		}
		if !c.SelectSuggestion(v) {
			printWarning(stderr, "skill %q is already listed", v)
		}
	}
	for _, v := range f.newSkills {
		if !c.AddFreeTextSkill(v) {
			printWarning(stderr, "%q is blank or already suggested, use --select-skill", v)
		}
	}
	return nil
}

// --- validate ---

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored profile against the form rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			if err := s.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return reportValidation(cmd.ErrOrStderr(), s.form)
		},
	}
}

// --- suggestions ---

func newSuggestionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "List skill suggestions, marking the ones already in the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			if err := s.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			skills := s.form.Skills()
			out := cmd.OutOrStdout()
			for _, v := range s.form.Suggestions() {
				mark := " "
				if slices.Contains(skills, v) {
					mark = colorize(colorGreen, "*")
				}
				fmt.Fprintf(out, "%s %s\n", mark, v)
			}
			return nil
		},
	}
}

// --- helpers ---

func reportValidation(w io.Writer, c *form.Controller) error {
	errs := c.Errors()
	if len(errs) == 0 {
		printSuccess(w, "profile is valid")
		return nil
	}
	printFieldErrors(w, errs)
	return errInvalidProfile
}

func printFieldErrors(w io.Writer, msgs map[form.Field]string) {
	for _, f := range fieldOrder {
		if msg, ok := msgs[f]; ok {
			printError(w, "%s: %s", f, msg)
		}
	}
}

func printValues(w io.Writer, v form.Values) {
	printStatus(w, "First name", "%s", v.FirstName)
	printStatus(w, "Last name", "%s", v.LastName)
	printStatus(w, "Full name", "%s", v.FullName)
	printStatus(w, "Age", "%s", v.Age)
	printStatus(w, "Email", "%s", v.Email)
	if len(v.Skills) == 0 {
		printStatus(w, "Skills", "(none)")
		return
	}
	printStatus(w, "Skills", "")
	for i, s := range v.Skills {
		fmt.Fprintf(w, "    [%d] %s\n", i, s)
	}
}

type profileJSON struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	FullName  string   `json:"fullName"`
	Age       int      `json:"age"`
	Email     string   `json:"email"`
	Skills    []string `json:"skills"`
}

func writeJSON(w io.Writer, p gateway.UserProfile) error {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(profileJSON{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  strings.TrimSpace(p.FullName),
		Age:       p.Age,
		Email:     p.Email,
		Skills:    skills,
	})
}
