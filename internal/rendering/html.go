package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/placement-pipeline/internal/types"
)

// resumeTemplate is the embedded HTML resume layout. Sections render only
// when their source list or field is non-empty, and the output depends on
// nothing but the input data, so identical input yields byte-identical HTML.
const resumeTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Georgia, 'Times New Roman', serif; max-width: 800px; margin: 24px auto; color: #1a1a1a; line-height: 1.45; }
h1 { font-size: 26px; margin: 0; }
h2 { font-size: 15px; text-transform: uppercase; letter-spacing: 1px; border-bottom: 1px solid #444; padding-bottom: 2px; margin: 18px 0 8px; }
.contact { font-size: 13px; color: #444; margin-top: 4px; }
.entry { margin-bottom: 10px; }
.entry-head { display: flex; justify-content: space-between; font-weight: bold; }
.entry-sub { font-style: italic; font-size: 13px; }
.dates { font-weight: normal; font-size: 13px; color: #444; }
ul { margin: 4px 0 0 18px; padding: 0; }
li { font-size: 13px; margin-bottom: 2px; }
p { font-size: 13px; margin: 4px 0; }
.skills { font-size: 13px; }
</style>
</head>
<body>
<header>
<h1>{{.PersonalInfo.Name}}</h1>
<div class="contact">{{join (contactParts .PersonalInfo) " | "}}</div>
</header>
{{if .PersonalInfo.Summary}}<section>
<h2>Summary</h2>
<p>{{.PersonalInfo.Summary}}</p>
</section>
{{end}}{{if .Education}}<section>
<h2>Education</h2>
{{range .Education}}<div class="entry">
<div class="entry-head"><span>{{.Institution}}</span><span class="dates">{{eduDates .}}</span></div>
<div class="entry-sub">{{.Degree}}{{if .Field}}, {{.Field}}{{end}}{{if .Grade}} &mdash; {{.Grade}}{{end}}</div>
</div>
{{end}}</section>
{{end}}{{if .Experience}}<section>
<h2>Experience</h2>
{{range .Experience}}<div class="entry">
<div class="entry-head"><span>{{.Company}}</span><span class="dates">{{expDates .}}</span></div>
<div class="entry-sub">{{.Role}}</div>
{{if .Description}}<p>{{.Description}}</p>
{{end}}{{if .Highlights}}<ul>
{{range .Highlights}}<li>{{.}}</li>
{{end}}</ul>
{{end}}</div>
{{end}}</section>
{{end}}{{if .Projects}}<section>
<h2>Projects</h2>
{{range .Projects}}<div class="entry">
<div class="entry-head"><span>{{.Title}}</span></div>
{{if .Description}}<p>{{.Description}}</p>
{{end}}{{if .Technologies}}<p class="entry-sub">{{join .Technologies ", "}}</p>
{{end}}</div>
{{end}}</section>
{{end}}{{if .Skills}}<section>
<h2>Skills</h2>
<p class="skills">{{join .Skills " · "}}</p>
</section>
{{end}}{{if .Certifications}}<section>
<h2>Certifications</h2>
<ul>
{{range .Certifications}}<li>{{.}}</li>
{{end}}</ul>
</section>
{{end}}{{if .Achievements}}<section>
<h2>Achievements</h2>
<ul>
{{range .Achievements}}<li>{{.}}</li>
{{end}}</ul>
</section>
{{end}}</body>
</html>
`

var resumeTmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join":         strings.Join,
	"contactParts": contactParts,
	"eduDates":     eduDates,
	"expDates":     expDates,
}).Parse(resumeTemplate))

// RenderHTML renders structured resume data into a self-contained HTML
// document. Pure: same input produces byte-identical output.
func RenderHTML(data types.ExtractedResumeData) (string, error) {
	var sb strings.Builder
	if err := resumeTmpl.Execute(&sb, data); err != nil {
		return "", &RenderError{Message: "failed to execute resume template", Cause: err}
	}
	return sb.String(), nil
}

// contactParts assembles the non-empty contact line fragments in a fixed order.
func contactParts(info types.PersonalInfo) []string {
	var parts []string
	for _, part := range []string{info.Email, info.Phone, info.Location, info.LinkedIn, info.GitHub, info.Portfolio} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func eduDates(e types.Education) string {
	return dateRange(e.StartYear, e.EndYear, e.Current)
}

func expDates(e types.Experience) string {
	return dateRange(e.StartDate, e.EndDate, e.Current)
}

func dateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}
