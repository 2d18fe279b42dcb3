package processor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"partnerplane/internal/command"
	"partnerplane/internal/partnership"
	"partnerplane/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

const testXML = `<partnerships>
  <partner name="acme" as2_id="ACME"/>
  <partner name="globex" as2_id="GLOBEX"/>
  <partnership name="acme-to-globex">
    <sender name="acme"/>
    <receiver name="globex"/>
    <attribute name="protocol" value="as2"/>
  </partnership>
</partnerships>
`

func newTestRegistry(t *testing.T) (*command.Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partnerships.xml")
	require.NoError(t, os.WriteFile(path, []byte(testXML), 0644))

	store, err := partnership.New(partnership.Config{Filename: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(context.Background()))

	return command.NewDefaultRegistry(store), path
}
