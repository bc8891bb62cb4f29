package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"datefinder/internal/api"
	"datefinder/internal/entities"
	"datefinder/internal/identity"
)

var (
	serverFlag string
	rootCmd    = &cobra.Command{
		Use:   "datefinderctl",
		Short: "CLI client for the DateFinder API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "API base URL (overrides config file)")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new event and become its first participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			creator, _ := cmd.Flags().GetString("creator")
			return runCreate(name, start, end, creator)
		},
	}
	createCmd.Flags().StringP("name", "n", "", "Event name (required)")
	createCmd.Flags().String("start", "", "First candidate date, YYYY-MM-DD (required)")
	createCmd.Flags().String("end", "", "Last candidate date, YYYY-MM-DD (required)")
	createCmd.Flags().String("creator", "", "Your display name (required)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
	_ = createCmd.MarkFlagRequired("creator")
	rootCmd.AddCommand(createCmd)

	joinCmd := &cobra.Command{
		Use:   "join CODE",
		Short: "Join an event under a display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return runJoin(args[0], name)
		},
	}
	joinCmd.Flags().StringP("name", "n", "", "Your display name (required)")
	_ = joinCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(joinCmd)

	toggleCmd := &cobra.Command{
		Use:   "toggle CODE DATE [DATE...]",
		Short: "Toggle one or more dates in your selection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args[0], args[1:])
		},
	}
	rootCmd.AddCommand(toggleCmd)

	resultsCmd := &cobra.Command{
		Use:   "results CODE",
		Short: "Show the ranked best dates for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runResults(args[0], limit)
		},
	}
	resultsCmd.Flags().IntP("limit", "l", 0, "Number of dates to show (server default when 0)")
	rootCmd.AddCommand(resultsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func client() (*resty.Client, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	base := cfg.Server
	if serverFlag != "" {
		base = serverFlag
	}
	return resty.New().SetBaseURL(base), nil
}

func identityStore() (identity.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return identity.NewFileStore(filepath.Join(dir, "identity.json")), nil
}

func runCreate(name, start, end, creator string) error {
	c, err := client()
	if err != nil {
		return err
	}
	ids, err := identityStore()
	if err != nil {
		return err
	}
	saved, _, err := ids.Load()
	if err != nil {
		return err
	}

	var out api.CreateEventResponse
	resp, err := c.R().
		SetBody(api.CreateEventRequest{
			Name: name, Start: start, End: end,
			CreatorName: creator, CreatorID: saved.ID,
		}).
		SetResult(&out).
		Post("/api/events")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("create failed: %s", resp.String())
	}

	if err := ids.Save(identity.Identity{ID: out.CreatorID, Name: creator}); err != nil {
		return err
	}
	fmt.Printf("event created: %s (%s – %s)\n", out.Code, out.Window.Start, out.Window.End)
	fmt.Printf("share this code with your friends\n")
	return nil
}

// runJoin drives the name reconciliation loop: propose a name, and when
// it collides with an existing participant either adopt that identity or
// pick a different name.
func runJoin(code, name string) error {
	c, err := client()
	if err != nil {
		return err
	}
	ids, err := identityStore()
	if err != nil {
		return err
	}
	saved, _, err := ids.Load()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		var out api.NameOutcomeResponse
		resp, err := c.R().
			SetBody(api.ProposeNameRequest{Name: name, CallerID: saved.ID}).
			SetResult(&out).
			Post(fmt.Sprintf("/api/events/%s/names", code))
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("join failed: %s", resp.String())
		}

		if out.Status == "accepted" {
			if err := ids.Save(identity.Identity{ID: out.ID, Name: out.Name}); err != nil {
				return err
			}
			fmt.Printf("joined %s as %q\n", code, out.Name)
			return nil
		}

		fmt.Printf("someone named %q already joined this event. Is that you? [y/N] ", out.MatchedName)
		answer, _ := reader.ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			var confirmed api.NameOutcomeResponse
			resp, err := c.R().
				SetBody(api.ConfirmNameRequest{ParticipantID: out.MatchedID}).
				SetResult(&confirmed).
				Post(fmt.Sprintf("/api/events/%s/names/confirm", code))
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("confirm failed: %s", resp.String())
			}
			if err := ids.Save(identity.Identity{ID: confirmed.ID, Name: confirmed.Name}); err != nil {
				return err
			}
			fmt.Printf("joined %s as existing participant %q\n", code, confirmed.Name)
			return nil
		}

		fmt.Print("enter a different name: ")
		next, _ := reader.ReadString('\n')
		name = strings.TrimSpace(next)
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
	}
}

func runToggle(code string, dates []string) error {
	c, err := client()
	if err != nil {
		return err
	}
	ids, err := identityStore()
	if err != nil {
		return err
	}
	saved, ok, err := ids.Load()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no identity saved, run 'datefinderctl join %s --name YOU' first", code)
	}

	for _, raw := range dates {
		if _, err := entities.ParseCalendarDate(raw); err != nil {
			return err
		}
		resp, err := c.R().
			SetBody(api.ToggleDateRequest{Date: raw, Name: saved.Name}).
			Post(fmt.Sprintf("/api/events/%s/participants/%s/toggle", code, saved.ID))
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("toggle %s failed: %s", raw, resp.String())
		}
		fmt.Printf("toggled %s\n", raw)
	}
	return nil
}

func runResults(code string, limit int) error {
	c, err := client()
	if err != nil {
		return err
	}

	req := c.R()
	if limit > 0 {
		req.SetQueryParam("limit", fmt.Sprint(limit))
	}
	var out api.ResultsResponse
	resp, err := req.SetResult(&out).Get(fmt.Sprintf("/api/events/%s/results", code))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("results failed: %s", resp.String())
	}

	fmt.Printf("%s (%s – %s), %d participants\n\n",
		out.EventName, out.Window.Start, out.Window.End, len(out.Participants))
	if len(out.BestDates) == 0 {
		fmt.Println("no votes yet")
		return nil
	}
	for i, tally := range out.BestDates {
		fmt.Printf("%2d. %s  %d vote(s)  [%s]", i+1, tally.Date, tally.Count, strings.Join(tally.VoterNames, ", "))
		if len(tally.AbsentNames) > 0 {
			fmt.Printf("  missing: %s", strings.Join(tally.AbsentNames, ", "))
		}
		fmt.Println()
	}
	return nil
}
