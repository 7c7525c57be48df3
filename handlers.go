package seoblog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ove9/seoblog/views"
)

const robotsTxt = "User-agent: *\nDisallow: /\n"

func (a *App) handleHome(c echo.Context) error {
	csrf := csrfToken(c)
	job, ok := a.jobs.get(sessionJobID(c))
	if !ok {
		return Render(c, views.Home(a.viewConfig(), csrf))
	}

	st := job.Status()
	switch st.State {
	case StateLoading:
		return Render(c, views.LoadingPage(a.viewConfig(), st.Stage.Message(), a.Config.RefreshSeconds))
	case StateSucceeded:
		return Render(c, views.ArticlePage(a.viewConfig(), st.Post, csrf))
	default:
		return Render(c, views.FailurePage(a.viewConfig(), errorMessage(st.Err), csrf))
	}
}

func (a *App) handleGenerate(c echo.Context) error {
	topic := ExtractTopic(c.FormValue("topic"))
	if topic == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if !a.limiter.Allow(c.RealIP()) {
		slog.Warn("generate_rate_limited", "remote_ip", c.RealIP())
		return c.String(http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
	}

	if prev := sessionJobID(c); prev != "" {
		a.jobs.discard(prev)
	}
	job := a.jobs.start(topic, a.Generator)
	if err := setSessionJobID(c, job.ID); err != nil {
		a.jobs.discard(job.ID)
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleReset(c echo.Context) error {
	if id := sessionJobID(c); id != "" {
		a.jobs.discard(id)
	}
	if err := setSessionJobID(c, ""); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt)
}

// errorMessage turns a failed job's error into the text shown to the user.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return "알 수 없는 오류가 발생했습니다."
	case errors.Is(err, context.DeadlineExceeded):
		return "생성 시간이 초과되었습니다. 다시 시도해주세요."
	default:
		return err.Error()
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		slog.Error("server_error", "uri", c.Request().RequestURI, "error", err)
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
