package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/denstore/internal/config"
	"github.com/calvinalkan/denstore/internal/kdf"
)

// testConfig returns a config using a cheap KDF cost so tests run quickly;
// this is never reachable outside test code.
func testConfig(path string) config.Config {
	cfg := config.DefaultConfig()
	cfg.ContainerPath = path
	cfg.KDF = config.KDFParams{N: 1 << 4, R: 8, P: 1}

	return cfg
}

func openTestContainer(t *testing.T) (*Container, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vault.dnk")

	c, err := Open(path, testConfig(path))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return c, path
}

func Test_Open_CreatesContainerFile_When_Missing(t *testing.T) {
	t.Parallel()

	_, path := openTestContainer(t)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected container file to exist: %v", err)
	}

	if info.Size() <= int64(saltRegionSize) {
		t.Fatalf("container file too small to contain any clusters: %d bytes", info.Size())
	}
}

func Test_Open_ReopensExistingContainer_When_CalledTwice(t *testing.T) {
	t.Parallel()

	c1, path := openTestContainer(t)

	if err := c1.Set("name", []byte("value")); err != nil {
		t.Fatal(err)
	}

	c2, err := Open(path, testConfig(path))
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}

	value, ok, err := c2.Get("name")
	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("expected value to survive reopen")
	}

	if string(value) != "value" {
		t.Fatalf("value = %q, want %q", value, "value")
	}
}

func Test_Get_ReturnsNotOk_When_NameNeverSet(t *testing.T) {
	t.Parallel()

	c, _ := openTestContainer(t)

	_, ok, err := c.Get("never-set")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("expected ok=false for a name that was never set")
	}
}

func Test_SetThenGet_RoundTrips_When_ValueStored(t *testing.T) {
	t.Parallel()

	c, _ := openTestContainer(t)

	if err := c.Set("my-secret", []byte("the launch code is 1234")); err != nil {
		t.Fatal(err)
	}

	value, ok, err := c.Get("my-secret")
	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("expected ok=true")
	}

	if string(value) != "the launch code is 1234" {
		t.Fatalf("value = %q", value)
	}
}

func Test_Set_OverwritesPreviousValue_When_CalledAgain(t *testing.T) {
	t.Parallel()

	c, _ := openTestContainer(t)

	if err := c.Set("k", []byte("v1")); err != nil {
		t.Fatal(err)
	}

	if err := c.Set("k", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	value, ok, err := c.Get("k")
	if err != nil {
		t.Fatal(err)
	}

	if !ok || string(value) != "v2" {
		t.Fatalf("value = %q ok=%v, want v2/true", value, ok)
	}
}

func Test_Delete_RemovesValue_When_NamePreviouslySet(t *testing.T) {
	t.Parallel()

	c, _ := openTestContainer(t)

	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}

	_, ok, err := c.Get("k")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("expected ok=false after delete")
	}
}

func Test_SetMultipleNames_KeepsThemIndependent_When_Interleaved(t *testing.T) {
	t.Parallel()

	c, _ := openTestContainer(t)

	require.NoError(t, c.Set("alpha", []byte("a-value")))
	require.NoError(t, c.Set("beta", []byte("b-value")))
	require.NoError(t, c.Set("alpha", []byte("a-value-2")))

	a, ok, err := c.Get("alpha")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a-value-2", string(a))

	b, ok, err := c.Get("beta")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b-value", string(b))
}

func Test_ReadSalt_Fails_When_FileIsNotAContainer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-vault.dnk")
	if err := os.WriteFile(path, []byte("just some unrelated file contents"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSalt(path); !errors.Is(err, ErrCorruptSalt) {
		t.Errorf("err = %v, want ErrCorruptSalt", err)
	}
}

func Test_Container_KDFParams_UsesConfiguredCost_When_Derived(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vault.dnk")
	cfg := testConfig(path)

	c, err := Open(path, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if c.kdfParams != (kdf.Params{N: 1 << 4, R: 8, P: 1}) {
		t.Fatalf("kdfParams = %+v, want the configured fast params", c.kdfParams)
	}
}
