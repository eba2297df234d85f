package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"solana-course/internal/programs/movie"
	"solana-course/internal/programs/studentintro"
	"solana-course/internal/token"
)

type (
	movieResp struct {
		Address string `json:"address" csv:"address"`
		movie.Review
	}

	studentIntroResp struct {
		Address string `json:"address" csv:"address"`
		studentintro.Intro
	}

	listResp[T any] struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Items []T `json:"items"`
	}
)

func (a *api) getMovies(ctx echo.Context) error {
	page, limit, err := pageParams(ctx)
	if err != nil {
		return err
	}
	format, err := a.outputFormat(ctx)
	if err != nil {
		return err
	}

	reviews, err := a.getMovieReviews(ctx.Request().Context())
	if err != nil {
		return chainError(ctx, "getMovieReviews", err)
	}

	items := make([]movieResp, len(reviews))
	for i, r := range reviews {
		items[i] = movieResp{Address: r.Address.String(), Review: r.Value}
	}
	if format == csvOutputFormat {
		return csvResp(ctx, items, "movies.csv")
	}

	return ctx.JSON(http.StatusOK, listResp[movieResp]{
		Total: len(items),
		Page:  page,
		Limit: limit,
		Items: token.Page(items, page, limit),
	})
}

func (a *api) getStudentIntros(ctx echo.Context) error {
	page, limit, err := pageParams(ctx)
	if err != nil {
		return err
	}

	intros, err := a.getIntros(ctx.Request().Context())
	if err != nil {
		return chainError(ctx, "getIntros", err)
	}

	items := make([]studentIntroResp, len(intros))
	for i, r := range intros {
		items[i] = studentIntroResp{Address: r.Address.String(), Intro: r.Value}
	}

	return ctx.JSON(http.StatusOK, listResp[studentIntroResp]{
		Total: len(items),
		Page:  page,
		Limit: limit,
		Items: token.Page(items, page, limit),
	})
}
