package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wansatya/x.com/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.Profile:
		o.printProfile(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u response.User) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", u.DisplayName, u.ID)
	if u.Email != "" {
		fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	}
	fmt.Fprintf(o.w, "Last login: %s\n", u.LastLoginAt.Format(time.RFC3339))
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printUser(a.User)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printProfile(p response.Profile) {
	fmt.Fprintf(o.w, "Profile: %s (%s)\n", p.Provider.DisplayName, p.ID)
	if p.HighScore != nil {
		fmt.Fprintf(o.w, "High score: %d\n", *p.HighScore)
	} else {
		fmt.Fprintln(o.w, "High score: none")
	}
	fmt.Fprintf(o.w, "Last login: %s\n", p.LastLogin.Format(time.RFC3339))
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Scores) == 0 {
		fmt.Fprintln(o.w, "No scores yet")
		return
	}
	for i, e := range l.Scores {
		fmt.Fprintf(o.w, "%3d. %-20s %6d\n", i+1, e.DisplayName, e.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
