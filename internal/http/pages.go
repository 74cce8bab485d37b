package httpapi

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"medicare/internal/catalog"
	"medicare/internal/domain"
	"medicare/internal/service"
	"medicare/internal/session"
)

// render fills in the layout fields shared by every page.
func (s *Server) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := currentSession(c)
	data["Title"] = title
	data["User"] = sess.User
	data["CartCount"] = sess.Cart.Quantity()
	if f, ok := sess.TakeFlash(); ok {
		data["Flash"] = f
	}
	c.HTML(status, name, data)
}

func (s *Server) landing(c *gin.Context) {
	s.render(c, http.StatusOK, "landing.html", "Welcome", nil)
}

// Auth pages

type signupReq struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (s *Server) signupForm(c *gin.Context) {
	s.render(c, http.StatusOK, "signup.html", "Sign up", nil)
}

func (s *Server) signup(c *gin.Context) {
	var f signupReq
	_ = c.ShouldBind(&f)
	in := service.SignupInput{Username: f.Username, Email: f.Email, Password: f.Password}

	if _, err := s.auth.Signup(c, in); err != nil {
		data := gin.H{"Form": f}
		var problems []string
		for _, p := range s.auth.CheckSignup(c, in) {
			problems = append(problems, p.Error())
		}
		if len(problems) > 1 {
			data["Problems"] = problems
		} else {
			data["Error"] = userMessage(err, "account")
		}
		s.render(c, mapErrorToStatus(err), "signup.html", "Sign up", data)
		return
	}
	currentSession(c).SetFlash(flashInfo, "account created, please log in")
	redirect(c, "/login")
}

type loginReq struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (s *Server) loginForm(c *gin.Context) {
	if currentSession(c).LoggedIn() {
		redirect(c, "/medicines")
		return
	}
	s.render(c, http.StatusOK, "login.html", "Log in", nil)
}

func (s *Server) login(c *gin.Context) {
	var f loginReq
	_ = c.ShouldBind(&f)
	u, err := s.auth.Login(c, strings.TrimSpace(f.Username), f.Password)
	if err != nil {
		s.render(c, mapErrorToStatus(err), "login.html", "Log in", gin.H{
			"Form":  f,
			"Error": userMessage(err, "login"),
		})
		return
	}
	sess := currentSession(c)
	sess.Login(u.Username, u.Role)
	sess.SetFlash(flashInfo, "welcome back, "+u.Username)
	redirect(c, "/medicines")
}

func (s *Server) logout(c *gin.Context) {
	currentSession(c).Reset()
	redirect(c, "/")
}

// Catalog

type medicineView struct {
	domain.Medicine
	Expiry   catalog.ExpiryStatus
	Stock    catalog.StockLevel
	Eligible bool
	Selected int
}

const (
	defaultSort = catalog.SortByName
	qtyPrefix   = "qty_"
)

// browseQuery reads the catalog filters from the query string. Missing
// in_stock means in stock only; page is 1-based.
func browseQuery(c *gin.Context) service.BrowseQuery {
	q := service.BrowseQuery{
		Query: catalog.Query{
			Search:      strings.TrimSpace(c.Query("q")),
			Category:    c.DefaultQuery("category", catalog.AllCategories),
			InStockOnly: true,
		},
		Sort: catalog.ParseSortKey(c.DefaultQuery("sort", string(defaultSort))),
	}
	if v, ok := c.GetQuery("in_stock"); ok {
		q.InStockOnly, _ = strconv.ParseBool(v)
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = p - 1
	}
	return q
}

func (s *Server) medicines(c *gin.Context) {
	q := browseQuery(c)
	l := s.catalog.Browse(c, q)
	sess := currentSession(c)
	sess.Menu = session.MenuMedicines

	items := make([]medicineView, 0, len(l.Page.Items))
	for _, m := range l.Page.Items {
		expiry := catalog.StatusOf(m, l.AsOf)
		items = append(items, medicineView{
			Medicine: m,
			Expiry:   expiry,
			Stock:    catalog.StockLevelOf(m.Stock),
			Eligible: expiry.State != catalog.ExpiryExpired && m.Stock > 0,
			Selected: sess.Selections[m.Key()],
		})
	}

	data := gin.H{
		"Query":      q,
		"Items":      items,
		"Page":       l.Page,
		"Found":      l.Found,
		"Categories": l.Categories,
		"SortKeys":   catalog.SortKeys,
		"AsOf":       asOfDate(l.AsOf),
	}
	if l.Page.Index > 0 {
		data["PrevURL"] = pageURL(c.Request.URL.Query(), l.Page.Index-1)
	}
	if l.Page.Index+1 < l.Page.Pages {
		data["NextURL"] = pageURL(c.Request.URL.Query(), l.Page.Index+1)
	}
	if l.LoadErr != nil {
		s.log.WithError(l.LoadErr).Warn("catalog unavailable")
		data["Error"] = userMessage(l.LoadErr, "")
	}
	s.render(c, http.StatusOK, "medicines.html", "Medicines", data)
}

// pageURL links to the zero-based page index with the other filters kept.
func pageURL(v url.Values, index int) template.URL {
	v.Set("page", strconv.Itoa(index+1))
	return template.URL("/medicines?" + v.Encode())
}

func (s *Server) refreshMedicines(c *gin.Context) {
	sess := currentSession(c)
	if err := s.catalog.Refresh(c); err != nil {
		sess.SetFlash(flashError, userMessage(err, ""))
	} else {
		sess.SetFlash(flashInfo, "catalog refreshed")
	}
	redirect(c, backTo(c, "/medicines"))
}

// selectMedicines reads qty_<id> fields and adds the positive ones to the cart.
func (s *Server) selectMedicines(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		_ = c.Error(err)
	}
	quantities := make(map[string]int)
	for key, values := range c.Request.PostForm {
		id, ok := strings.CutPrefix(key, qtyPrefix)
		if !ok || id == "" || len(values) == 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		quantities[id] = n
	}

	sess := currentSession(c)
	n, err := s.catalog.AddSelected(c, sess, quantities)
	if err != nil {
		sess.SetFlash(flashError, userMessage(err, ""))
		redirect(c, backTo(c, "/medicines"))
		return
	}
	sess.SetFlash(flashInfo, strconv.Itoa(n)+" item(s) added to your cart")
	redirect(c, backTo(c, "/medicines"))
}

func (s *Server) clearSelections(c *gin.Context) {
	currentSession(c).ClearSelections()
	redirect(c, backTo(c, "/medicines"))
}

// backTo returns the form's "back" field when it points into the
// catalog, and fallback otherwise.
func backTo(c *gin.Context, fallback string) string {
	back := c.PostForm("back")
	if strings.HasPrefix(back, "/medicines") && !strings.HasPrefix(back, "//") {
		return back
	}
	return fallback
}

// Cart

type quantityReq struct {
	Qty int `form:"qty" binding:"required,min=1,max=99"`
}

func (s *Server) cartPage(c *gin.Context) {
	sess := currentSession(c)
	sess.Menu = session.MenuCart
	s.render(c, http.StatusOK, "cart.html", "Your cart", gin.H{
		"Lines":    sess.Cart.Lines(),
		"Total":    sess.Cart.Total(),
		"Quantity": sess.Cart.Quantity(),
	})
}

func lineIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, domain.ErrLineNotFound
	}
	return i, nil
}

func (s *Server) setCartQuantity(c *gin.Context) {
	sess := currentSession(c)
	i, err := lineIndex(c)
	if err == nil {
		var f quantityReq
		if bindErr := c.ShouldBind(&f); bindErr != nil {
			err = domain.ErrInvalidQuantity
		} else {
			err = sess.Cart.SetQuantity(i, f.Qty)
		}
	}
	if err != nil {
		sess.SetFlash(flashError, userMessage(err, ""))
	}
	redirect(c, "/cart")
}

func (s *Server) removeCartLine(c *gin.Context) {
	sess := currentSession(c)
	i, err := lineIndex(c)
	if err == nil {
		err = sess.Cart.Remove(i)
	}
	if err != nil {
		sess.SetFlash(flashError, userMessage(err, ""))
	}
	redirect(c, "/cart")
}

func (s *Server) clearCart(c *gin.Context) {
	currentSession(c).Cart.Clear()
	redirect(c, "/cart")
}

// Orders

type orderReq struct {
	Address string `form:"address"`
}

func (s *Server) orderForm(c *gin.Context) {
	sess := currentSession(c)
	s.renderOrder(c, http.StatusOK, sess.Address, "")
}

func (s *Server) renderOrder(c *gin.Context, status int, address, errMsg string) {
	sess := currentSession(c)
	data := gin.H{
		"Lines":   sess.Cart.Lines(),
		"Total":   sess.Cart.Total(),
		"Empty":   s.orders.State(sess) == service.OrderEmpty,
		"Address": address,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	s.render(c, status, "order.html", "Place order", data)
}

func (s *Server) placeOrder(c *gin.Context) {
	var f orderReq
	_ = c.ShouldBind(&f)
	sess := currentSession(c)

	o, err := s.orders.PlaceOrder(c, sess, f.Address)
	if err != nil {
		_ = c.Error(err)
		s.renderOrder(c, mapErrorToStatus(err), f.Address, userMessage(err, "order"))
		return
	}
	sess.SetFlash(flashInfo, "order placed, total "+formatMoney(o.Total))
	redirect(c, "/orders")
}

func (s *Server) orderHistory(c *gin.Context) {
	sess := currentSession(c)
	sess.Menu = session.MenuOrders
	orders, err := s.orders.History(c, sess.User)
	data := gin.H{"Orders": orders}
	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = mapErrorToStatus(err)
		data["Error"] = userMessage(err, "")
	}
	s.render(c, status, "orders.html", "Your orders", data)
}

// Consultations

type consultReq struct {
	Symptoms      string `form:"symptoms"`
	PreferredTime string `form:"preferred_time"`
}

func (s *Server) consultForm(c *gin.Context) {
	currentSession(c).Menu = session.MenuConsult
	s.render(c, http.StatusOK, "consult.html", "Consult a doctor", nil)
}

func (s *Server) requestConsultation(c *gin.Context) {
	var f consultReq
	_ = c.ShouldBind(&f)
	sess := currentSession(c)

	if _, err := s.consultations.Request(c, sess.User, f.Symptoms, f.PreferredTime); err != nil {
		_ = c.Error(err)
		s.render(c, mapErrorToStatus(err), "consult.html", "Consult a doctor", gin.H{
			"Form":  f,
			"Error": userMessage(err, "consultation request"),
		})
		return
	}
	sess.SetFlash(flashInfo, "consultation requested, a doctor will contact you")
	redirect(c, "/consultations")
}

func (s *Server) consultationHistory(c *gin.Context) {
	sess := currentSession(c)
	sess.Menu = session.MenuConsultations
	list, err := s.consultations.History(c, sess.User)
	data := gin.H{"Consultations": list}
	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = mapErrorToStatus(err)
		data["Error"] = userMessage(err, "")
	}
	s.render(c, status, "consultations.html", "Your consultations", data)
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// asOfDate is the date shown next to expiry badges.
func asOfDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
