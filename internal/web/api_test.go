package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-course/internal/pkg/chain/chaintest"
	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/storage/sqlite"
	"solana-course/internal/programs/candymachine"
	"solana-course/internal/programs/movie"
	"solana-course/internal/programs/ping"
	"solana-course/internal/programs/studentintro"
	"solana-course/internal/programs/tokenmeta"
)

const publicUrl = "http://localhost:8000"

type fakeFetcher struct {
	docs  map[string]any
	calls int
}

func (f *fakeFetcher) FetchJSON(_ context.Context, uri string, v any) error {
	f.calls++
	doc, ok := f.docs[uri]
	if !ok {
		return errors.New("not found")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

type testAPI struct {
	*api
	fake   *chaintest.Fake
	remote *fakeFetcher
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := sqlite.New(ctx, config_types.SQLiteConfig{DBPath: filepath.Join(t.TempDir(), "web.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := chaintest.New()
	fetcher := &fakeFetcher{docs: map[string]any{}}
	a := newAPI(ctx, cancel, config_types.WebConfig{Port: 8000, PublicUrl: publicUrl}, chaintest.NewClient(f), s, fetcher)

	return testAPI{api: a, fake: f, remote: fetcher}
}

func (a testAPI) do(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["message"]
}

func TestGetBalance(t *testing.T) {
	a := newTestAPI(t)
	address := solana.NewWallet().PublicKey()
	a.fake.SetAccount(address, solana.SystemProgramID, nil)
	a.fake.Balances[address] = 1_500_000_000

	rec := a.do(t, http.MethodGet, "/balance/"+address.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.Equal(t, "1.5", res["sol"])
	assert.Equal(t, false, res["executable"])
}

func TestGetBalanceErrors(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/balance/not-an-address", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "address", errorMessage(t, rec))

	rec = a.do(t, http.MethodGet, "/balance/"+solana.NewWallet().PublicKey().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	a.fake.Err = errors.New("connection refused")
	rec = a.do(t, http.MethodGet, "/balance/"+solana.NewWallet().PublicKey().String(), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestErrorBodiesReachClient(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		method, target, body string
		code                 int
		message              string
	}{
		{http.MethodGet, "/balance/not-an-address", "", http.StatusBadRequest, "address"},
		{http.MethodGet, "/balance/" + solana.NewWallet().PublicKey().String(), "", http.StatusNotFound, "account not found"},
		{http.MethodPost, "/tx/transfer", `{"wallet":"x"}`, http.StatusBadRequest, "wallet"},
		{http.MethodGet, "/movies?format=xml", "", http.StatusBadRequest, "format"},
	}
	for _, tt := range tests {
		rec := a.do(t, tt.method, tt.target, tt.body)
		assert.Equal(t, tt.code, rec.Code, tt.target)
		assert.Equal(t, tt.message, errorMessage(t, rec), tt.target)
	}

	a.fake.Err = errors.New("connection refused")
	rec := a.do(t, http.MethodGet, "/balance/"+solana.NewWallet().PublicKey().String(), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "rpc unavailable", errorMessage(t, rec))
}

func txFromResp(t *testing.T, rec *httptest.ResponseRecorder) (*solana.Transaction, map[string]any) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	tx, err := solana.TransactionFromBase64(res["transaction"].(string))
	require.NoError(t, err)

	return tx, res
}

func TestBuildPingTx(t *testing.T) {
	a := newTestAPI(t)
	wallet := solana.NewWallet().PublicKey()

	tx, res := txFromResp(t, a.do(t, http.MethodPost, "/tx/ping", `{"wallet":"`+wallet.String()+`"}`))
	assert.Equal(t, a.fake.Blockhash.String(), res["blockhash"])
	assert.Equal(t, wallet, tx.Message.AccountKeys[0])
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, ping.ProgramID, tx.Message.AccountKeys[tx.Message.Instructions[0].ProgramIDIndex])

	rec := a.do(t, http.MethodPost, "/tx/ping", `{"wallet":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "wallet", errorMessage(t, rec))
}

func TestBuildTransferTx(t *testing.T) {
	a := newTestAPI(t)
	wallet := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()
	a.fake.Balances[wallet] = 200_000_000

	body := func(to, amount string) string {
		return `{"wallet":"` + wallet.String() + `","recipient":"` + to + `","amount":"` + amount + `"}`
	}

	tx, _ := txFromResp(t, a.do(t, http.MethodPost, "/tx/transfer", body(recipient.String(), "0.1")))
	assert.Equal(t, solana.SystemProgramID, tx.Message.AccountKeys[tx.Message.Instructions[0].ProgramIDIndex])
	assert.Contains(t, tx.Message.AccountKeys, recipient)

	pda, _, err := movie.FindReviewAddress(wallet, "Dune")
	require.NoError(t, err)
	rec := a.do(t, http.MethodPost, "/tx/transfer", body(pda.String(), "0.1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Recipient address is not valid", errorMessage(t, rec))

	rec = a.do(t, http.MethodPost, "/tx/transfer", body(recipient.String(), "0.3"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient sol balance", errorMessage(t, rec))

	rec = a.do(t, http.MethodPost, "/tx/transfer", body(recipient.String(), "-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", errorMessage(t, rec))
}

func TestBuildMovieReviewTx(t *testing.T) {
	a := newTestAPI(t)
	wallet := solana.NewWallet().PublicKey()

	tx, res := txFromResp(t, a.do(t, http.MethodPost, "/tx/movie-review",
		`{"wallet":"`+wallet.String()+`","title":"Dune","rating":5,"description":"spice"}`))
	pda, _, err := movie.FindReviewAddress(wallet, "Dune")
	require.NoError(t, err)
	assert.Equal(t, pda.String(), res["account"])
	expected, err := movie.Review{Title: "Dune", Rating: 5, Description: "spice"}.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte(expected), []byte(tx.Message.Instructions[0].Data))

	rec := a.do(t, http.MethodPost, "/tx/movie-review", `{"wallet":"`+wallet.String()+`","title":"Dune","rating":9,"description":"spice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "rating")
}

func TestBuildStudentIntroTx(t *testing.T) {
	a := newTestAPI(t)
	wallet := solana.NewWallet().PublicKey()

	_, res := txFromResp(t, a.do(t, http.MethodPost, "/tx/student-intro",
		`{"wallet":"`+wallet.String()+`","name":"Ada","message":"gm"}`))
	pda, _, err := studentintro.FindIntroAddress(wallet)
	require.NoError(t, err)
	assert.Equal(t, pda.String(), res["account"])

	rec := a.do(t, http.MethodPost, "/tx/student-intro", `{"wallet":"`+wallet.String()+`","name":"","message":"gm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendTx(t *testing.T) {
	a := newTestAPI(t)
	wallet := solana.NewWallet().PrivateKey

	tx, err := solana.NewTransaction([]solana.Instruction{ping.NewPingInstruction()}, a.fake.Blockhash, solana.TransactionPayer(wallet.PublicKey()))
	require.NoError(t, err)
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(wallet.PublicKey()) {
			return &wallet
		}
		return nil
	})
	require.NoError(t, err)
	signed, err := tx.ToBase64()
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/tx/send", `{"transaction":"`+signed+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]string](t, rec)
	assert.Equal(t, tx.Signatures[0].String(), res["signature"])
	assert.Contains(t, res["explorer_url"], "cluster=devnet")
	assert.Equal(t, 1, a.fake.SentCount())

	rec = a.do(t, http.MethodPost, "/tx/send", `{"transaction":"AAAA"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(t, http.MethodPost, "/tx/send", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type reviewAccount struct {
	Initialized bool
	Rating      uint8
	Title       string
	Description string
}

func keyed(t *testing.T, owner solana.PublicKey, v any) *rpc.KeyedAccount {
	t.Helper()
	data, err := bin.MarshalBorsh(v)
	require.NoError(t, err)

	return &rpc.KeyedAccount{
		Pubkey:  solana.NewWallet().PublicKey(),
		Account: &rpc.Account{Owner: owner, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}

func TestGetMovies(t *testing.T) {
	a := newTestAPI(t)
	a.fake.ProgramAccounts[movie.ProgramID] = rpc.GetProgramAccountsResult{
		keyed(t, movie.ProgramID, reviewAccount{Initialized: true, Rating: 5, Title: "Dune", Description: "spice"}),
		keyed(t, movie.ProgramID, reviewAccount{Initialized: false}),
		{Pubkey: solana.NewWallet().PublicKey(), Account: &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(nil)}},
		keyed(t, movie.ProgramID, reviewAccount{Initialized: true, Rating: 3, Title: "Heat", Description: "long"}),
	}

	rec := a.do(t, http.MethodGet, "/movies?page=1&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[listResp[movieResp]](t, rec)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Dune", res.Items[0].Title)

	// served from cache
	a.fake.ProgramAccounts[movie.ProgramID] = nil
	rec = a.do(t, http.MethodGet, "/movies?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "address,title,rating,description", lines[0])
	assert.True(t, strings.HasSuffix(lines[2], ",Heat,3,long"))

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/movies?limit=1000", "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/movies?page=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/movies?format=xml", "").Code)
}

func TestGetStudentIntros(t *testing.T) {
	a := newTestAPI(t)
	a.fake.ProgramAccounts[studentintro.ProgramID] = rpc.GetProgramAccountsResult{
		keyed(t, studentintro.ProgramID, struct {
			Initialized bool
			Name        string
			Message     string
		}{true, "Ada", "gm"}),
	}

	rec := a.do(t, http.MethodGet, "/student-intros", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[listResp[studentIntroResp]](t, rec)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ada", res.Items[0].Name)
	assert.Equal(t, defaultLimit, res.Limit)

	rec = a.do(t, http.MethodGet, "/student-intros?page=1024819115206086202", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[listResp[studentIntroResp]](t, rec).Items)
}

func setMint(t *testing.T, a testAPI, mint solana.PublicKey, decimals uint8) {
	t.Helper()
	data, err := bin.MarshalBin(&token.Mint{Decimals: decimals, IsInitialized: true})
	require.NoError(t, err)
	a.fake.SetAccount(mint, solana.TokenProgramID, data)
}

func holding(t *testing.T, mint, owner solana.PublicKey, amount uint64) *rpc.TokenAccount {
	t.Helper()
	data, err := bin.MarshalBin(&token.Account{Mint: mint, Owner: owner, Amount: amount})
	require.NoError(t, err)

	return &rpc.TokenAccount{
		Pubkey:  solana.NewWallet().PublicKey(),
		Account: rpc.Account{Owner: solana.TokenProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}

func TestGetTokenBalances(t *testing.T) {
	a := newTestAPI(t)
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	setMint(t, a, mint, 2)
	a.fake.TokenAccounts[owner] = []*rpc.TokenAccount{holding(t, mint, owner, 7500)}

	rec := a.do(t, http.MethodGet, "/wallets/"+owner.String()+"/tokens", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[[]map[string]any](t, rec)
	require.Len(t, res, 1)
	assert.Equal(t, mint.String(), res[0]["mint"])
	assert.Equal(t, "7500", res[0]["amount"])

	rec = a.do(t, http.MethodGet, "/wallets/"+owner.String()+"/tokens?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "account,mint,amount,decimals,ui_amount\n"))

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/wallets/x/tokens", "").Code)
}

func TestGetNFTs(t *testing.T) {
	a := newTestAPI(t)
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	setMint(t, a, mint, 0)
	pda, err := tokenmeta.FindMetadataAddress(mint)
	require.NoError(t, err)
	data, err := bin.MarshalBorsh(&tokenmeta.Metadata{
		Key:  tokenmeta.KeyMetadataV1,
		Mint: mint,
		Data: tokenmeta.Data{Name: "Course NFT", Symbol: "CNFT", Uri: "https://example.com/nft.json"},
	})
	require.NoError(t, err)
	a.fake.SetAccount(pda, tokenmeta.ProgramID, data)
	a.fake.TokenAccounts[owner] = []*rpc.TokenAccount{holding(t, mint, owner, 1)}
	a.remote.docs["https://example.com/nft.json"] = tokenmeta.OffChainMetadata{Name: "Course NFT", Image: "https://example.com/nft.png"}

	for i := 0; i < 2; i++ {
		rec := a.do(t, http.MethodGet, "/wallets/"+owner.String()+"/nfts?random=10", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[listResp[map[string]any]](t, rec)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Course NFT", res.Items[0]["name"])
		assert.Equal(t, "https://example.com/nft.png", res.Items[0]["off_chain"].(map[string]any)["image"])
	}
	assert.Equal(t, 1, a.remote.calls)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/wallets/"+owner.String()+"/nfts?random=0", "").Code)
}

func TestAssets(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader("\x89PNG"))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]string](t, rec)
	assert.Equal(t, publicUrl+"/assets/"+created["id"], created["uri"])

	rec = a.do(t, http.MethodGet, "/assets/"+created["id"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "sandbox")
	assert.Equal(t, "\x89PNG", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/assets/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/assets/7d444840-9dc0-11d1-b245-5ffdce74fad2", "").Code)

	req = httptest.NewRequest(http.MethodPost, "/assets", nil)
	req.Header.Set("Content-Type", "image/png")
	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetsRejectActiveContent(t *testing.T) {
	a := newTestAPI(t)

	for _, contentType := range []string{"text/html", "image/svg+xml", "application/javascript", "text/xml"} {
		req := httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader("<script>alert(1)</script>"))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code, contentType)
	}

	// rows written before the allow-list are served inert
	asset, err := a.storage.CreateAsset(context.Background(), "text/html", []byte("<script>alert(1)</script>"))
	require.NoError(t, err)
	rec := a.do(t, http.MethodGet, "/assets/"+asset.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestOwnAssetMetadataSkipsNetwork(t *testing.T) {
	a := newTestAPI(t)
	asset, err := a.storage.CreateAsset(context.Background(), "application/json", []byte(`{"name":"Stored","image":"img"}`))
	require.NoError(t, err)

	var doc tokenmeta.OffChainMetadata
	require.NoError(t, a.api.fetcher.FetchJSON(context.Background(), a.assetUri(asset.ID), &doc))
	assert.Equal(t, "Stored", doc.Name)
	assert.Zero(t, a.remote.calls)

	err = a.api.fetcher.FetchJSON(context.Background(), publicUrl+"/assets/7d444840-9dc0-11d1-b245-5ffdce74fad2", &doc)
	assert.Error(t, err)
	assert.Zero(t, a.remote.calls)
}

func TestOffChainCacheIsBounded(t *testing.T) {
	a := newTestAPI(t)
	big := strings.Repeat("x", maxCachedDocSize)
	a.remote.docs["https://example.com/big.json"] = map[string]string{"name": big}
	a.remote.docs["https://example.com/small.json"] = map[string]string{"name": "small"}

	var doc map[string]string
	for i := 0; i < 2; i++ {
		require.NoError(t, a.api.fetcher.FetchJSON(context.Background(), "https://example.com/big.json", &doc))
	}
	assert.Equal(t, 2, a.remote.calls)
	_, cached := a.cache.Get(offChainCachePrefix + "https://example.com/big.json")
	assert.False(t, cached)

	for i := 0; i < maxCachedItems; i++ {
		a.cache.SetDefault(fmt.Sprintf("filler:%d", i), i)
	}
	require.NoError(t, a.api.fetcher.FetchJSON(context.Background(), "https://example.com/small.json", &doc))
	assert.Equal(t, "small", doc["name"])
	_, cached = a.cache.Get(offChainCachePrefix + "https://example.com/small.json")
	assert.False(t, cached)
}

func candyMachineAccount(t *testing.T, itemsRedeemed uint64, items ...candymachine.Item) []byte {
	t.Helper()
	encoded, err := bin.MarshalBorsh(&struct {
		Authority     solana.PublicKey
		Wallet        solana.PublicKey
		TokenMint     *solana.PublicKey `bin:"optional"`
		ItemsRedeemed uint64
		Data          candymachine.Data
	}{
		Authority:     solana.NewWallet().PublicKey(),
		Wallet:        solana.NewWallet().PublicKey(),
		ItemsRedeemed: itemsRedeemed,
		Data:          candymachine.Data{Symbol: "CNFT", Creators: []candymachine.Creator{}, ItemsAvailable: uint64(len(items))},
	})
	require.NoError(t, err)

	data := bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, "CandyMachine")
	data = append(data, encoded...)
	data = append(data, make([]byte, 713-len(data))...)
	data = append(data, byte(len(items)), 0, 0, 0)
	for _, item := range items {
		line := make([]byte, 240)
		line[0] = byte(len(item.Name))
		copy(line[4:], item.Name)
		line[36] = byte(len(item.Uri))
		copy(line[40:], item.Uri)
		data = append(data, line...)
	}

	return data
}

func TestGetCandyMachine(t *testing.T) {
	a := newTestAPI(t)
	address := solana.NewWallet().PublicKey()
	items := make([]candymachine.Item, 11)
	for i := range items {
		items[i] = candymachine.Item{Name: fmt.Sprintf("Course NFT #%d", i+1), Uri: fmt.Sprintf("https://example.com/%d.json", i+1)}
	}
	a.fake.SetAccount(address, candymachine.ProgramID, candyMachineAccount(t, 4, items...))
	a.remote.docs["https://example.com/10.json"] = tokenmeta.OffChainMetadata{Name: "Course NFT #10", Image: "https://example.com/10.png"}

	rec := a.do(t, http.MethodGet, "/candy-machines/"+address.String()+"?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.Equal(t, float64(11), res["total"])
	assert.Equal(t, float64(4), res["items_redeemed"])
	assert.Equal(t, float64(defaultLimit), res["limit"])
	page := res["items"].([]any)
	require.Len(t, page, 2)
	first := page[0].(map[string]any)
	assert.Equal(t, "Course NFT #10", first["name"])
	assert.Equal(t, "https://example.com/10.png", first["off_chain"].(map[string]any)["image"])
	assert.Nil(t, page[1].(map[string]any)["off_chain"])

	notCM := solana.NewWallet().PublicKey()
	a.fake.SetAccount(notCM, solana.SystemProgramID, nil)
	rec = a.do(t, http.MethodGet, "/candy-machines/"+notCM.String(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not a candy machine", errorMessage(t, rec))

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/candy-machines/"+solana.NewWallet().PublicKey().String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/candy-machines/x", "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/candy-machines/"+address.String()+"?page=0", "").Code)
}
