package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := ReadChallenge(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[ChallengeDir+"/"+nefName] = &fstest.MapFile{}
	_, err = ReadChallenge(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = ChallengeDir + "/" + nefName
		manifestPath = ChallengeDir + "/" + manifestName
	)

	expNEF, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "TokenHackerChallenge")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := ReadChallenge(_fs)
	require.NoError(t, err)
	require.Equal(t, "TokenHackerChallenge", c.Manifest.Name)
	require.Equal(t, expNEF.Script, c.NEF.Script)
	require.Equal(t, expNEF.Checksum, c.NEF.Checksum)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = ReadChallenge(_fs)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = ReadChallenge(_fs)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadOtherDir(t *testing.T) {
	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "KeyToken")

	_fs := fstest.MapFS{
		"key/" + nefName:      &fstest.MapFile{Data: validNEF},
		"key/" + manifestName: &fstest.MapFile{Data: validManifest},
	}

	c, err := Read(_fs, "key")
	require.NoError(t, err)
	require.Equal(t, "KeyToken", c.Manifest.Name)

	_, err = ReadChallenge(_fs)
	require.Error(t, err)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
