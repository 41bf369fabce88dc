package app

import (
	"fmt"
	"html"
	"net/http"
	"runtime"
	"strings"
	"time"
)

var startTime = time.Now()

// StatusCheck represents a single status check result
type StatusCheck struct {
	Name    string `json:"name"`
	Status  bool   `json:"status"`
	Details string `json:"details,omitempty"`
}

// Check is a named probe run on every status request.
type Check struct {
	Name string
	Run  func() (details string, err error)
}

// StatusResponse represents the full status response
type StatusResponse struct {
	Healthy   bool           `json:"healthy"`
	Uptime    string         `json:"uptime"`
	GoVersion string         `json:"go_version"`
	Memory    MemoryStatus   `json:"memory"`
	Services  []StatusCheck  `json:"services"`
	Config    []StatusCheck  `json:"config"`
	Calls     []*APILogEntry `json:"recent_calls"`
	Log       []*SysLogEntry `json:"recent_log"`
}

// MemoryStatus represents memory usage
type MemoryStatus struct {
	Alloc      uint64 `json:"alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

// StatusHandler serves /status as JSON or HTML. The service is healthy when
// every check passes.
func StatusHandler(checks ...Check) http.HandlerFunc {
	return Route(RouteOpts{
		JSON: func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, buildStatus(checks))
		},
		HTML: func(w http.ResponseWriter, r *http.Request) {
			body := renderStatusHTML(buildStatus(checks))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(RenderHTML("Status", "Server status and health checks", body)))
		},
	})
}

func buildStatus(checks []Check) StatusResponse {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := StatusResponse{
		Healthy:   true,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
		Memory: MemoryStatus{
			Alloc:      m.Alloc / 1024 / 1024,
			Sys:        m.Sys / 1024 / 1024,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Config: EnvStatus(),
		Calls:  GetAPILog(20),
	}

	for _, c := range checks {
		details, err := c.Run()
		sc := StatusCheck{Name: c.Name, Status: err == nil, Details: details}
		if err != nil {
			sc.Details = err.Error()
			status.Healthy = false
		}
		status.Services = append(status.Services, sc)
	}

	logs := GetSysLog()
	if len(logs) > 20 {
		logs = logs[:20]
	}
	status.Log = logs
	return status
}

func renderStatusHTML(s StatusResponse) string {
	var b strings.Builder
	state := "Healthy"
	if !s.Healthy {
		state = "Degraded"
	}
	b.WriteString(CardDiv(fmt.Sprintf(`<h2>%s</h2>`, state) +
		Meta(fmt.Sprintf(`Up %s &middot; %s &middot; %d goroutines`, s.Uptime, s.GoVersion, s.Memory.Goroutines))))

	writeChecks := func(title string, checks []StatusCheck) {
		var t strings.Builder
		fmt.Fprintf(&t, `<h3>%s</h3><table>`, title)
		for _, c := range checks {
			mark := "&#10007;"
			if c.Status {
				mark = "&#10003;"
			}
			fmt.Fprintf(&t, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				mark, html.EscapeString(c.Name), html.EscapeString(c.Details))
		}
		t.WriteString(`</table>`)
		b.WriteString(CardDiv(t.String()))
	}
	writeChecks("Services", s.Services)
	writeChecks("Config", s.Config)

	if len(s.Calls) == 0 {
		b.WriteString(CardDiv(`<h3>Recent calls</h3>` + Empty("No places calls yet")))
		return b.String()
	}
	var t strings.Builder
	t.WriteString(`<h3>Recent calls</h3><table>`)
	for _, c := range s.Calls {
		fmt.Fprintf(&t, `<tr><td>%s</td><td>%s %s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			c.Time.Format(time.RFC3339), html.EscapeString(c.Method), html.EscapeString(c.Target),
			html.EscapeString(c.Status), c.Duration.Round(time.Millisecond), html.EscapeString(c.Error))
	}
	t.WriteString(`</table>`)
	b.WriteString(CardDiv(t.String()))
	return b.String()
}
