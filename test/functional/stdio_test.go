package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// stdioSession drives a watertrack binary over the stdio transport.
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func binaryPath(t *testing.T) string {
	t.Helper()
	for _, candidate := range []string{"./bin/watertrack", "../../bin/watertrack"} {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			require.NoError(t, err)
			return abs
		}
	}
	t.Skip("Server binary not found. Run 'go build -o bin/watertrack ./cmd/watertrack' first.")
	return ""
}

func newStdioSession(t *testing.T, dataDir string) *stdioSession {
	t.Helper()
	binary := binaryPath(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binary)
	cmd.Env = append(os.Environ(),
		"WATERTRACK_CONFIG_PATH=",
		"WATERTRACK_TRANSPORT=stdio",
		"WATERTRACK_DATA_PATH="+filepath.Join(dataDir, "watertracker.json"),
		"WATERTRACK_ACTIVITY_PATH="+filepath.Join(dataDir, "activity.jsonl"),
		"WATERTRACK_LOG_LEVEL=warn",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	s := &stdioSession{session: session, cancel: cancel}
	t.Cleanup(s.close)
	return s
}

func (s *stdioSession) close() {
	s.session.Close()
	s.cancel()
}

func (s *stdioSession) call(t *testing.T, name string, args map[string]any) (*sdkmcp.CallToolResult, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return result, text.Text
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil, ""
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	result, text := s.call(t, name, args)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, text)
	return text
}

func (s *stdioSession) callToolError(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	result, text := s.call(t, name, args)
	require.True(t, result.IsError, "Tool %s should have failed: %s", name, text)
	return gjson.Get(text, "code").String()
}

func TestStdioFunctional_DataSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first := newStdioSession(t, dir)
	first.callTool(t, "save_profile", map[string]any{"name": "Alice", "target_ml": 2000})
	added := first.callTool(t, "add_intake", map[string]any{"volume_ml": 250, "note": "morning"})
	id := gjson.Get(added, "id").String()
	require.NotEmpty(t, id)
	first.close()

	second := newStdioSession(t, dir)
	profile := second.callTool(t, "get_profile", nil)
	require.Equal(t, "Alice", gjson.Get(profile, "name").String())
	require.EqualValues(t, 2000, gjson.Get(profile, "target_ml").Int())

	list := second.callTool(t, "list_intake", map[string]any{"days": 1})
	require.EqualValues(t, 1, gjson.Get(list, "count").Int())
	require.Equal(t, id, gjson.Get(list, "records.0.id").String())
}

func TestStdioFunctional_ExportClearImport(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "backup.json")

	s := newStdioSession(t, dir)
	s.callTool(t, "save_profile", map[string]any{"name": "Alice", "target_ml": 2000})
	s.callTool(t, "add_intake", map[string]any{"volume_ml": 250})
	s.callTool(t, "add_intake", map[string]any{"volume_ml": 500})

	exported := s.callTool(t, "export_data", map[string]any{"path": exportPath})
	require.Equal(t, exportPath, gjson.Get(exported, "path").String())

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	require.Len(t, gjson.GetBytes(data, "checksum").String(), 64)

	s.callTool(t, "clear_data", map[string]any{"confirm": true})
	require.Equal(t, "PROFILE_NOT_FOUND", s.callToolError(t, "get_profile", nil))

	imported := s.callTool(t, "import_data", map[string]any{"path": exportPath})
	require.Equal(t, "Alice", gjson.Get(imported, "profile_name").String())
	require.EqualValues(t, 2, gjson.Get(imported, "records").Int())

	status := s.callTool(t, "get_status", nil)
	require.EqualValues(t, 750, gjson.Get(status, "consumed_ml").Int())
}

func TestStdioFunctional_ImportRejectsTamperedFile(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "backup.json")

	s := newStdioSession(t, dir)
	s.callTool(t, "save_profile", map[string]any{"name": "Alice", "target_ml": 2000})
	s.callTool(t, "add_intake", map[string]any{"volume_ml": 250})
	s.callTool(t, "export_data", map[string]any{"path": exportPath})

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	tampered := []byte(gjson.GetBytes(data, "profile").Raw)
	tampered = append([]byte(`{"profile":`), tampered...)
	tampered = append(tampered, []byte(`,"records":[],"checksum":`)...)
	tampered = append(tampered, doc["checksum"]...)
	tampered = append(tampered, '}')
	require.NoError(t, os.WriteFile(exportPath, tampered, 0o644))

	require.Equal(t, "INTEGRITY_ERROR", s.callToolError(t, "import_data", map[string]any{"path": exportPath}))

	list := s.callTool(t, "list_intake", map[string]any{"days": 1})
	require.EqualValues(t, 1, gjson.Get(list, "count").Int())
}
