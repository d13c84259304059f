package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/wansatya/x.com/internal/model"
)

// LeaderboardData is the data for the leaderboard page
type LeaderboardData struct {
	PageData
	Scores []model.ScoreEntry
	// StreamURL, when set, makes the page follow live updates
	StreamURL string
}

// Leaderboard renders the full leaderboard page
func Leaderboard(data LeaderboardData) templ.Component {
	return Layout(data.PageData, leaderboardBody(data))
}

func leaderboardBody(data LeaderboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Top scores</h1>`)
		b.WriteString(`<table id="scores"><thead><tr><th>#</th><th>Player</th><th class="score">Score</th></tr></thead>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := ScoreRows(data.Scores).Render(ctx, w); err != nil {
			return err
		}
		b.Reset()
		b.WriteString(`</table>`)
		if data.StreamURL != "" {
			fmt.Fprintf(&b, `<script data-stream="%s">%s</script>`, templ.EscapeString(data.StreamURL), liveScript)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ScoreRows renders the table body for scores
func ScoreRows(scores []model.ScoreEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<tbody>`)
		if len(scores) == 0 {
			b.WriteString(`<tr><td colspan="3" class="empty">No scores yet</td></tr>`)
		}
		for i, s := range scores {
			fmt.Fprintf(&b, `<tr data-user="%s"><td>%d</td><td class="name">%s</td><td class="score">%d</td></tr>`,
				templ.EscapeString(string(s.UserID)), i+1, templ.EscapeString(s.DisplayName), s.Score)
		}
		b.WriteString(`</tbody>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// liveScript replaces the table rows on every "scores" stream event
const liveScript = `(function(){
var s=document.currentScript,t=document.getElementById("scores");
var es=new EventSource(s.dataset.stream);
es.addEventListener("scores",function(e){
var d=JSON.parse(e.data),b=document.createElement("tbody");
(d.scores||[]).forEach(function(x,i){
var r=b.insertRow();r.dataset.user=x.user_id;
r.insertCell().textContent=i+1;
var n=r.insertCell();n.className="name";n.textContent=x.display_name;
var c=r.insertCell();c.className="score";c.textContent=x.score;});
if(!b.rows.length){var r=b.insertRow(),c=r.insertCell();c.colSpan=3;c.className="empty";c.textContent="No scores yet";}
t.replaceChild(b,t.tBodies[0]);});
})();`
