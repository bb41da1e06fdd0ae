package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/watertrack/internal/domain/activity"
	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/shopspring/decimal"
)

type tools struct {
	services Services
	logger   *slog.Logger
	loc      *time.Location
}

func (t *tools) register(server *sdkmcp.Server) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_profile",
		Description: "Get the user profile and daily target",
	}, t.getProfile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_profile",
		Description: "Create or replace the user profile. Without target_ml the daily target is computed from height, weight, age and gender",
	}, t.saveProfile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_intake",
		Description: "Log water intake in milliliters",
	}, t.addIntake)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_intake",
		Description: "Edit the volume, note or time of a logged intake",
	}, t.updateIntake)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_intake",
		Description: "Delete a logged intake",
	}, t.deleteIntake)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_intake",
		Description: "List logged intake: everything, the last N days, or a range of calendar days",
	}, t.listIntake)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_status",
		Description: "Get today's consumption, remaining volume and progress toward the daily target",
	}, t.getStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_data",
		Description: "Export the profile and intake history to a checksummed JSON file",
	}, t.exportData)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_data",
		Description: "Replace all data with the contents of an exported file after verifying its checksum",
	}, t.importData)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_data",
		Description: "Remove the profile and every intake record",
	}, t.clearData)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity",
		Description: "List recent changes, newest first",
	}, t.listActivity)
}

func (t *tools) getProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetProfileParams) (*sdkmcp.CallToolResult, ProfileResult, error) {
	p, err := t.services.Profiles.Get(ctx)
	if err != nil {
		return t.fail("get_profile", err), ProfileResult{}, nil
	}
	return nil, toProfileResult(p), nil
}

// saveProfile takes weight_kg as a JSON number. NewFromFloat keeps the shortest
// decimal that round-trips the float64, which is the literal the client sent
// for any weight with up to 15 significant digits.
func (t *tools) saveProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveProfileParams) (*sdkmcp.CallToolResult, ProfileResult, error) {
	p, err := t.services.Profiles.Save(ctx, profile.SaveRequest{
		Name:     in.Name,
		Unit:     profile.Unit(strings.ToLower(strings.TrimSpace(in.Unit))),
		TargetML: in.TargetML,
		HeightCM: in.HeightCM,
		WeightKG: decimal.NewFromFloat(in.WeightKG),
		AgeYears: in.AgeYears,
		Gender:   profile.Gender(in.Gender),
	})
	if err != nil {
		return t.fail("save_profile", err), ProfileResult{}, nil
	}
	return nil, toProfileResult(p), nil
}

func (t *tools) addIntake(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddIntakeParams) (*sdkmcp.CallToolResult, IntakeResult, error) {
	ts, err := parseTimestamp(in.Timestamp)
	if err != nil {
		return t.fail("add_intake", err), IntakeResult{}, nil
	}
	rec, err := t.services.Intake.Add(ctx, intake.AddRequest{VolumeML: in.VolumeML, Note: in.Note, Timestamp: ts})
	if err != nil {
		return t.fail("add_intake", err), IntakeResult{}, nil
	}
	return nil, toIntakeResult(*rec, t.unit(ctx)), nil
}

func (t *tools) updateIntake(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateIntakeParams) (*sdkmcp.CallToolResult, IntakeResult, error) {
	ts, err := parseTimestamp(in.Timestamp)
	if err != nil {
		return t.fail("update_intake", err), IntakeResult{}, nil
	}
	rec, err := t.services.Intake.Update(ctx, intake.UpdateRequest{
		ID:        in.ID,
		VolumeML:  in.VolumeML,
		Note:      in.Note,
		Timestamp: ts,
	})
	if err != nil {
		return t.fail("update_intake", err), IntakeResult{}, nil
	}
	return nil, toIntakeResult(*rec, t.unit(ctx)), nil
}

func (t *tools) deleteIntake(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteIntakeParams) (*sdkmcp.CallToolResult, DeleteIntakeResult, error) {
	if err := t.services.Intake.Delete(ctx, in.ID); err != nil {
		return t.fail("delete_intake", err), DeleteIntakeResult{}, nil
	}
	return nil, DeleteIntakeResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) listIntake(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListIntakeParams) (*sdkmcp.CallToolResult, ListIntakeResult, error) {
	records, err := t.queryIntake(ctx, in)
	if err != nil {
		return t.fail("list_intake", err), ListIntakeResult{Records: []IntakeResult{}}, nil
	}
	return nil, toListIntakeResult(records, t.unit(ctx)), nil
}

func (t *tools) queryIntake(ctx context.Context, in ListIntakeParams) ([]intake.Record, error) {
	switch {
	case in.StartDate != "" || in.EndDate != "":
		if in.Days != 0 {
			return nil, fmt.Errorf("%w: give either days or a date range", errInvalidArgument)
		}
		start, err := t.parseDate("start_date", in.StartDate)
		if err != nil {
			return nil, err
		}
		end := start
		if in.EndDate != "" {
			if end, err = t.parseDate("end_date", in.EndDate); err != nil {
				return nil, err
			}
		}
		return t.services.Intake.ListRange(ctx, start, end)
	case in.Days != 0:
		return t.services.Intake.ListRecent(ctx, in.Days)
	default:
		return t.services.Intake.List(ctx, intake.ListOptions{})
	}
}

func (t *tools) getStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetStatusParams) (*sdkmcp.CallToolResult, StatusResult, error) {
	status, err := t.services.Intake.Status(ctx)
	if err != nil {
		return t.fail("get_status", err), StatusResult{}, nil
	}
	return nil, toStatusResult(status, t.unit(ctx)), nil
}

func (t *tools) exportData(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportDataParams) (*sdkmcp.CallToolResult, ExportDataResult, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return t.fail("export_data", fmt.Errorf("%w: path is required", errInvalidArgument)), ExportDataResult{}, nil
	}
	if err := t.services.State.Export(ctx, path); err != nil {
		return t.fail("export_data", err), ExportDataResult{}, nil
	}
	return nil, ExportDataResult{Path: path}, nil
}

func (t *tools) importData(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportDataParams) (*sdkmcp.CallToolResult, ImportDataResult, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return t.fail("import_data", fmt.Errorf("%w: path is required", errInvalidArgument)), ImportDataResult{}, nil
	}
	st, err := t.services.State.Import(ctx, path)
	if err != nil {
		return t.fail("import_data", err), ImportDataResult{}, nil
	}
	out := ImportDataResult{Path: path, Records: len(st.Records)}
	if st.Profile != nil {
		out.ProfileName = st.Profile.Name
	}
	return nil, out, nil
}

func (t *tools) clearData(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClearDataParams) (*sdkmcp.CallToolResult, ClearDataResult, error) {
	if !in.Confirm {
		return t.fail("clear_data", fmt.Errorf("%w: confirm must be true", errInvalidArgument)), ClearDataResult{}, nil
	}
	if err := t.services.State.Reset(ctx); err != nil {
		return t.fail("clear_data", err), ClearDataResult{}, nil
	}
	return nil, ClearDataResult{Cleared: true}, nil
}

func (t *tools) listActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivityParams) (*sdkmcp.CallToolResult, ListActivityResult, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	if in.RecordID != "" {
		opts.RecordID = &in.RecordID
	}
	entries, err := t.services.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return t.fail("list_activity", err), ListActivityResult{Entries: []ActivityResult{}}, nil
	}
	out := ListActivityResult{Entries: make([]ActivityResult, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, toActivityResult(entry))
	}
	return nil, out, nil
}

// unit returns the profile's display unit, or ml when there is no profile.
func (t *tools) unit(ctx context.Context) profile.Unit {
	p, err := t.services.Profiles.Get(ctx)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) && t.logger != nil {
			t.logger.Warn("reading profile for display unit", "error", err)
		}
		return profile.UnitML
	}
	return p.Unit
}

func (t *tools) fail(tool string, err error) *sdkmcp.CallToolResult {
	if t.logger != nil {
		t.logger.Info("tool failed", "tool", tool, "error", err)
	}
	return errorResult(err)
}

func (t *tools) parseDate(field, value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), t.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errInvalidArgument, field)
	}
	return d, nil
}

func parseTimestamp(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp must be RFC 3339", errInvalidArgument)
	}
	return &ts, nil
}
