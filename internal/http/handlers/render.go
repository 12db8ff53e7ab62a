package handlers

import (
	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	applog "offerbytes/internal/log"
	"offerbytes/internal/money"
	"offerbytes/internal/repos"
)

// NewEngine loads the page templates with the helpers they use.
func NewEngine(dir string, unit currency.Unit) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("money", func(d decimal.Decimal) string { return money.Format(d, unit) })
	return engine
}

// Renderer fills the data every page needs: user, CSRF token, queued notices
// and the countdown's expired label.
type Renderer struct {
	Notices     *repos.NoticeRepo
	ExpiredText string
}

func (r *Renderer) render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fallback: read the CSRF cookie directly if Locals wasn't populated
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	data["ExpiredText"] = r.ExpiredText
	if sid := c.Cookies("sid"); sid != "" && r.Notices != nil {
		notices, err := r.Notices.Drain(sid)
		if err != nil {
			applog.Error(c, "notices.drain.fail", err, nil)
		}
		data["Notices"] = notices
	}
	return c.Render(tmpl, data)
}

func (r *Renderer) notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}
