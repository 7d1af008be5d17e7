// ABOUTME: Shared flag parsing and prompting helpers for CLI commands
// ABOUTME: Parses item specs, optional dates and confirmations

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harper/carlog/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// parseDateFlag parses a YYYY-MM-DD flag, defaulting to today when blank.
func parseDateFlag(value string) (models.Date, error) {
	if strings.TrimSpace(value) == "" {
		return models.DateOf(now()), nil
	}
	return models.ParseDate(value)
}

// splitCategory splits "Category/Name". A bare name has an empty category.
func splitCategory(s string) (category, name string) {
	if i := strings.Index(s, "/"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return "", strings.TrimSpace(s)
}

func parsePrice(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}

// parseItemSpec parses "Category/Name[:original[:actual]]". The actual
// price defaults to the original one.
func parseItemSpec(spec string) (models.MaintenanceItem, error) {
	parts := strings.Split(spec, ":")
	category, name := splitCategory(parts[0])
	if name == "" {
		return models.MaintenanceItem{}, fmt.Errorf("item %q has no name", spec)
	}
	item := models.MaintenanceItem{Category: category, Name: name, Completed: true}
	if len(parts) > 3 {
		return models.MaintenanceItem{}, fmt.Errorf("item %q: use Category/Name:original:actual", spec)
	}
	if len(parts) > 1 {
		v, err := parsePrice("original price", parts[1])
		if err != nil {
			return models.MaintenanceItem{}, err
		}
		item.OriginalPrice, item.ActualPrice = v, v
	}
	if len(parts) > 2 {
		v, err := parsePrice("actual price", parts[2])
		if err != nil {
			return models.MaintenanceItem{}, err
		}
		item.ActualPrice = v
	}
	return item, nil
}

// parseProblemSpec parses "Name[:priority[:description]]".
func parseProblemSpec(spec string) (models.IncompleteItem, error) {
	parts := strings.SplitN(spec, ":", 3)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return models.IncompleteItem{}, fmt.Errorf("problem %q has no name", spec)
	}
	item := models.IncompleteItem{Name: name, Priority: models.PriorityMedium}
	if len(parts) > 1 {
		p, err := models.ParsePriority(parts[1])
		if err != nil {
			return models.IncompleteItem{}, err
		}
		item.Priority = p
	}
	if len(parts) > 2 {
		item.Description = strings.TrimSpace(parts[2])
	}
	return item, nil
}

// parseReminderItemSpec parses "Category/Name[:estimate]".
func parseReminderItemSpec(spec string) (models.ReminderItem, error) {
	parts := strings.SplitN(spec, ":", 2)
	category, name := splitCategory(parts[0])
	if name == "" {
		return models.ReminderItem{}, fmt.Errorf("item %q has no name", spec)
	}
	item := models.ReminderItem{Category: category, Name: name}
	if len(parts) > 1 {
		v, err := parsePrice("estimated price", parts[1])
		if err != nil {
			return models.ReminderItem{}, err
		}
		item.EstimatedPrice = &v
	}
	return item, nil
}

func loadAttachments(paths []string) ([]models.FileAttachment, error) {
	var out []models.FileAttachment
	for _, p := range paths {
		a, err := models.NewAttachmentFromFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// changedString returns a pointer to the flag value when the flag was set.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func changedFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func changedDate(cmd *cobra.Command, name string) (*models.Date, error) {
	s := changedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func changedPriority(cmd *cobra.Command, name string) (*models.Priority, error) {
	s := changedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	p, err := models.ParsePriority(*s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var (
	inputSource io.Reader
	inputLines  *bufio.Reader
)

// lineReader returns one buffered reader per input so consecutive prompts
// do not lose buffered lines.
func lineReader(in io.Reader) *bufio.Reader {
	if in != inputSource {
		inputSource = in
		inputLines = bufio.NewReader(in)
	}
	return inputLines
}

// confirm asks a yes/no question on in, defaulting to no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	response, err := lineReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// readSecret prompts for a password without echo on a terminal and reads a
// plain line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := lineReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
