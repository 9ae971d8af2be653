package cli

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/config"
	"github.com/celer-network/go-airdrop/db/memorydb"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

const testConfig = `
name: MerkleAirdrop
chainId: "31337"
verifyingContract: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
token: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
`

const testPassword = "airdrop"

type fixture struct {
	dir      string
	env      *env
	key      *ecdsa.PrivateKey
	holder   common.Address
	keystore string
}

func newFixture(t *testing.T) *fixture {
	dir, err := ioutil.TempDir("", "airdrop-cli")
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(testConfig)))
	cfg, err := config.Load(v)
	require.NoError(t, err)
	e, err := newEnv(cfg, memorydb.NewDB())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := keystore.NewKeyStore(filepath.Join(dir, "keystore"), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, testPassword)
	require.NoError(t, err)

	holder := crypto.PubkeyToAddress(key.PublicKey)
	list := fmt.Sprintf(`
entries:
  - account: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
    amount: "100"
  - account: "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
    amount: "50"
  - account: "%s"
    amount: "75"
`, holder.Hex())
	listPath := filepath.Join(dir, "list.yaml")
	require.NoError(t, ioutil.WriteFile(listPath, []byte(list), 0644))
	viper.Set(flagList, listPath)

	return &fixture{dir: dir, env: e, key: key, holder: holder, keystore: account.URL.Path}
}

func (f *fixture) cleanup() {
	viper.Reset()
	f.env.close()
	os.RemoveAll(f.dir)
}

func (f *fixture) build(t *testing.T) *buildOutput {
	var out bytes.Buffer
	require.NoError(t, build(f.env, nil, &out))
	result := &buildOutput{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), result))
	return result
}

func (f *fixture) sign(t *testing.T) *signOutput {
	viper.Set(flagKeystore, f.keystore)
	viper.Set(flagPassword, testPassword)
	var out bytes.Buffer
	require.NoError(t, sign(f.env, nil, &out))
	result := &signOutput{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), result))
	return result
}

func TestBuildAndProof(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	built := f.build(t)
	require.Len(t, built.Entries, 3)
	root, err := f.env.index.Root()
	require.NoError(t, err)
	assert.Equal(t, root.Hex(), built.Root)

	var out bytes.Buffer
	require.NoError(t, proof(f.env, []string{f.holder.Hex()}, &out))
	result := &rootedProofOutput{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), result))
	assert.Equal(t, built.Root, result.Root)
	assert.Equal(t, f.holder.Hex(), result.Account)
	assert.Equal(t, "75", result.Amount)
	assert.NotEmpty(t, result.Proof)

	assert.Error(t, proof(f.env, []string{"0x0000000000000000000000000000000000000001"}, &out))
	assert.Error(t, proof(f.env, []string{"nope"}, &out))
}

func TestBuildToFile(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	path := filepath.Join(f.dir, "proofs.yaml")
	viper.Set(flagOut, path)
	var out bytes.Buffer
	require.NoError(t, build(f.env, nil, &out))
	assert.Zero(t, out.Len())

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	result := &buildOutput{}
	require.NoError(t, yaml.Unmarshal(data, result))
	assert.Len(t, result.Entries, 3)
}

func TestDigest(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	var out bytes.Buffer
	require.NoError(t, digest(f.env, []string{f.holder.Hex(), "75"}, &out))
	result := &digestOutput{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), result))

	hasher, err := f.env.messageHasher()
	require.NoError(t, err)
	want, err := hasher.MessageHash(f.holder, big.NewInt(75))
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), result.Digest)
	assert.Equal(t, hasher.DomainSeparator().Hex(), result.DomainSeparator)

	assert.Error(t, digest(f.env, []string{f.holder.Hex(), "-1"}, &out))
	assert.Error(t, digest(f.env, []string{f.holder.Hex(), "1e18"}, &out))
}

func TestSignAndDryRunClaim(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()
	f.build(t)

	signed := f.sign(t)
	assert.Equal(t, f.holder.Hex(), signed.Account)
	assert.Equal(t, "75", signed.Amount)

	viper.Set(flagSignature, signed.Signature)
	viper.Set(flagDryRun, true)
	var out bytes.Buffer
	require.NoError(t, claim(f.env, []string{f.holder.Hex()}, &out))
	result := &claimOutput{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), result))
	assert.True(t, result.DryRun)
	assert.Equal(t, "75", result.Amount)

	claimed, err := airdrop.NewLedger(f.env.db).HasClaimed(f.holder)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, airdrop.NewLedger(f.env.db).MarkClaimed(f.holder))
	err = claim(f.env, []string{f.holder.Hex()}, &out)
	assert.True(t, errors.Is(err, airdrop.ErrAlreadyClaimed))
}

func TestClaimRejections(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()
	f.build(t)
	signed := f.sign(t)
	viper.Set(flagDryRun, true)
	var out bytes.Buffer

	// signed by the holder, submitted for someone else
	viper.Set(flagSignature, signed.Signature)
	err := claim(f.env, []string{"0x70997970c51812dc3a010c7d01b50e0d17dc79c8"}, &out)
	assert.True(t, errors.Is(err, airdrop.ErrInvalidSignature))

	// signed for a larger amount than the list grants
	viper.Set(flagAmount, "80")
	signed = f.sign(t)
	viper.Set(flagSignature, signed.Signature)
	err = claim(f.env, []string{f.holder.Hex()}, &out)
	assert.True(t, errors.Is(err, airdrop.ErrInvalidProof))

	viper.Set(flagSignature, "0x1234")
	assert.Error(t, claim(f.env, []string{f.holder.Hex()}, &out))
}

func TestClaimNeedsChainWithoutDryRun(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()
	f.build(t)
	signed := f.sign(t)
	viper.Set(flagSignature, signed.Signature)

	f.env.cfg.Ethereum.Endpoint = ""
	var out bytes.Buffer
	assert.Error(t, claim(f.env, []string{f.holder.Hex()}, &out))
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	defer f.cleanup()

	var out bytes.Buffer
	require.NoError(t, status(f.env, nil, &out))
	empty := &ledgerStatus{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), empty))
	assert.Empty(t, empty.Claimed)

	built := f.build(t)
	require.NoError(t, airdrop.NewLedger(f.env.db).MarkClaimed(f.holder))

	out.Reset()
	require.NoError(t, status(f.env, nil, &out))
	all := &ledgerStatus{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), all))
	assert.Equal(t, built.Root, all.Root)
	assert.Equal(t, []string{f.holder.Hex()}, all.Claimed)

	out.Reset()
	require.NoError(t, status(f.env, []string{f.holder.Hex()}, &out))
	one := &accountStatus{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), one))
	assert.True(t, one.Eligible)
	assert.True(t, one.Claimed)
	assert.Equal(t, "75", one.Amount)

	out.Reset()
	require.NoError(t, status(f.env, []string{"0x0000000000000000000000000000000000000001"}, &out))
	other := &accountStatus{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), other))
	assert.False(t, other.Eligible)
	assert.False(t, other.Claimed)
}
