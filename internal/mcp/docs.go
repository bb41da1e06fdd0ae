package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `watertrack keeps one person's water intake: a profile with a daily target and a log of drinks.

Typical flow:
1) get_profile. If it reports PROFILE_NOT_FOUND, ask for a name and either a daily target in ml or height, weight, age and gender, then call save_profile.
2) Log drinks with add_intake (milliliters; timestamp defaults to now). Fix mistakes with update_intake or delete_intake.
3) get_status answers "how am I doing today"; list_intake answers questions about history.
4) export_data writes a checksummed backup; import_data restores one and replaces everything.
5) clear_data wipes the profile and every record; only call it when the user explicitly asks.

Volumes are stored in milliliters. The *_display fields are already converted to the user's unit.

Docs:
- watertrack://docs/export-format (backup file layout and checksum rules)
- watertrack://docs/daily-target (how the computed target and the safety limits work)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	MIMEType    string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "watertrack://docs/export-format",
		Name:        "docs_export_format",
		Title:       "Export file format",
		Description: "Layout of export_data files and how import_data verifies them.",
		MIMEType:    "text/markdown",
		Content: `# Export file format

An export is a single JSON object with exactly three members, in this order:

` + "```json" + `
{"profile":{...},"records":[...],"checksum":"<64 hex digits>"}
` + "```" + `

- ` + "`profile`" + `: ` + "`name, unit, target_ml, height_cm, weight_kg, age_years, gender`" + `.
- ` + "`records`" + `: intake records in logged order, each ` + "`id, timestamp, volume_ml, note`" + `.
  Timestamps are UTC with millisecond precision, e.g. ` + "`2024-01-01T08:00:00.000Z`" + `.
- ` + "`checksum`" + `: lowercase hex SHA-256 of the bytes ` + "`{\"profile\":...,\"records\":...}`" + `
  exactly as they appear in the file.

The file is compact: no spaces or line breaks inside the object, one trailing newline.
Exporting the same data twice produces identical files.

## Import rules

- Not valid JSON → ` + "`PARSE_ERROR`" + `.
- Checksum missing, not a string, or not matching → ` + "`INTEGRITY_ERROR`" + `.
  Reformatting the file (pretty-printing, reordering keys) also breaks the checksum.
- Checksum matches but the content is invalid (no profile, zero volumes, duplicate ids) → ` + "`PARSE_ERROR`" + `.
- File cannot be read → ` + "`IO_ERROR`" + `.

On any error nothing changes. On success the profile and all records are replaced by the file's contents.
`,
	},
	{
		URI:         "watertrack://docs/daily-target",
		Name:        "docs_daily_target",
		Title:       "Daily target and limits",
		Description: "How save_profile computes a target and which intake limits apply.",
		MIMEType:    "text/markdown",
		Content: `# Daily target and limits

When ` + "`save_profile`" + ` gets no ` + "`target_ml`" + `, the target is

    round((0.035 × weight_kg + 0.002 × height_cm − 0.0002 × age_years + bonus) × 1000) ml

with bonus 0.25 for MALE, 0.1 for FEMALE and 0.15 for OTHER.

## Limits

- A single intake may not exceed the configured maximum (2000 ml by default).
- One calendar day may not exceed the configured daily maximum (8000 ml by default).

Progress is consumed / target, capped at 100%.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    doc.MIMEType,
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: doc.MIMEType,
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
