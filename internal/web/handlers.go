package web

import (
	"errors"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/labstack/echo/v4"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/log"
	"solana-course/internal/pkg/metrics"
	"solana-course/internal/programs/movie"
	"solana-course/internal/programs/ping"
	"solana-course/internal/programs/studentintro"
)

const (
	txKindPing         = "ping"
	txKindTransfer     = "transfer"
	txKindMovieReview  = "movie_review"
	txKindStudentIntro = "student_intro"

	relayStatusSuccess = "success"
	relayStatusInvalid = "invalid"
	relayStatusFailed  = "failed"
)

type (
	walletReq struct {
		Wallet string `json:"wallet"`
	}

	transferReq struct {
		Wallet    string `json:"wallet"`
		Recipient string `json:"recipient"`
		Amount    string `json:"amount"`
	}

	movieReviewReq struct {
		Wallet string `json:"wallet"`
		movie.Review
	}

	studentIntroReq struct {
		Wallet string `json:"wallet"`
		studentintro.Intro
	}

	sendReq struct {
		Transaction string `json:"transaction"`
	}

	txResp struct {
		chain.UnsignedTransaction
		Account *solana.PublicKey `json:"account,omitempty"`
	}

	sendResp struct {
		Signature   solana.Signature `json:"signature"`
		ExplorerUrl string           `json:"explorer_url"`
	}
)

func (a *api) getBalance(ctx echo.Context) error {
	address, err := addressParam(ctx, "address")
	if err != nil {
		return err
	}

	res, err := a.client.Balance(ctx.Request().Context(), address)
	if err != nil {
		return chainError(ctx, "Balance", err)
	}

	return ctx.JSON(http.StatusOK, res)
}

func bindWallet(ctx echo.Context, req interface{}, wallet *string) (solana.PublicKey, error) {
	if err := ctx.Bind(req); err != nil {
		return solana.PublicKey{}, echo.NewHTTPError(http.StatusBadRequest, "body")
	}
	pk, err := chain.ParseAddress(*wallet)
	if err != nil {
		return pk, echo.NewHTTPError(http.StatusBadRequest, "wallet")
	}

	return pk, nil
}

func (a *api) unsignedTx(ctx echo.Context, kind string, ixs []solana.Instruction, feePayer solana.PublicKey, account *solana.PublicKey) error {
	res, err := a.client.BuildUnsigned(ctx.Request().Context(), ixs, feePayer)
	if err != nil {
		return chainError(ctx, "BuildUnsigned", err)
	}
	metrics.IncTxBuiltCnt(kind)

	return ctx.JSON(http.StatusOK, txResp{UnsignedTransaction: res, Account: account})
}

func (a *api) buildPingTx(ctx echo.Context) error {
	var req walletReq
	wallet, err := bindWallet(ctx, &req, &req.Wallet)
	if err != nil {
		return err
	}

	return a.unsignedTx(ctx, txKindPing, []solana.Instruction{ping.NewPingInstruction()}, wallet, nil)
}

func (a *api) buildTransferTx(ctx echo.Context) error {
	var req transferReq
	wallet, err := bindWallet(ctx, &req, &req.Wallet)
	if err != nil {
		return err
	}
	recipient, err := chain.ParseWalletAddress(req.Recipient)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, chain.ErrInvalidRecipient.Error())
	}
	lamports, err := chain.SolToLamports(req.Amount)
	if err != nil || lamports == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount")
	}

	balance, err := a.client.Lamports(ctx.Request().Context(), wallet)
	if err != nil {
		return chainError(ctx, "Lamports", err)
	}
	if balance < lamports {
		return echo.NewHTTPError(http.StatusBadRequest, chain.ErrInsufficientBalance.Error())
	}

	ix, err := system.NewTransferInstruction(lamports, wallet, recipient).ValidateAndBuild()
	if err != nil {
		log.Logger.Web.Errorf("system.NewTransferInstruction: %s", err)
		return err
	}

	return a.unsignedTx(ctx, txKindTransfer, []solana.Instruction{ix}, wallet, nil)
}

func (a *api) buildMovieReviewTx(ctx echo.Context) error {
	var req movieReviewReq
	wallet, err := bindWallet(ctx, &req, &req.Wallet)
	if err != nil {
		return err
	}

	ix, pda, err := movie.NewAddReviewInstruction(wallet, req.Review)
	if errors.Is(err, movie.ErrInvalidReview) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		log.Logger.Web.Errorf("NewAddReviewInstruction: %s", err)
		return err
	}

	return a.unsignedTx(ctx, txKindMovieReview, []solana.Instruction{ix}, wallet, &pda)
}

func (a *api) buildStudentIntroTx(ctx echo.Context) error {
	var req studentIntroReq
	wallet, err := bindWallet(ctx, &req, &req.Wallet)
	if err != nil {
		return err
	}

	ix, pda, err := studentintro.NewAddIntroInstruction(wallet, req.Intro)
	if errors.Is(err, studentintro.ErrInvalidIntro) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		log.Logger.Web.Errorf("NewAddIntroInstruction: %s", err)
		return err
	}

	return a.unsignedTx(ctx, txKindStudentIntro, []solana.Instruction{ix}, wallet, &pda)
}

func (a *api) sendTx(ctx echo.Context) error {
	var req sendReq
	if err := ctx.Bind(&req); err != nil || req.Transaction == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction")
	}

	sig, err := a.client.SendRaw(ctx.Request().Context(), req.Transaction)
	if errors.Is(err, chain.ErrInvalidTransaction) {
		metrics.IncTxRelayedCnt(relayStatusInvalid)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		metrics.IncTxRelayedCnt(relayStatusFailed)
		return chainError(ctx, "SendRaw", err)
	}
	metrics.IncTxRelayedCnt(relayStatusSuccess)

	return ctx.JSON(http.StatusOK, sendResp{Signature: sig, ExplorerUrl: a.client.ExplorerTxURL(sig)})
}
