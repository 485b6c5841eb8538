// Package server renders the forum pages and wires form submissions to the
// repositories. Validation failures re-render the page with an inline
// message; a missing record redirects to the index; actions that need a
// session redirect to the login page.
package server

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"forum/internal/models"
	"forum/internal/store"
)

type Server struct {
	Users      *models.Users
	Categories *models.Categories
	Topics     *models.Topics
	Posts      *models.Posts
	Sessions   *models.Sessions

	tmpl   map[string]*template.Template
	logger *zap.Logger
}

func New(st *store.Store, clock clockwork.Clock, templateDir string, logger *zap.Logger) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	return &Server{
		Users:      models.NewUsers(st, clock),
		Categories: models.NewCategories(st, clock),
		Topics:     models.NewTopics(st, clock),
		Posts:      models.NewPosts(st, clock),
		Sessions:   models.NewSessions(st),
		tmpl:       templates,
		logger:     logger,
	}, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/profile", s.requireAuth(s.handleProfile))
	mux.HandleFunc("/profile/password", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("/category", s.handleCategory)
	mux.HandleFunc("/category/new", s.requireAuth(s.handleNewCategory))
	mux.HandleFunc("/topic", s.handleTopic)
	mux.HandleFunc("/topic/new", s.requireAuth(s.handleNewTopic))
	mux.HandleFunc("/topic/reply", s.requireAuth(s.handleReply))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return s.withLogging(mux)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// isValidationErr reports whether err is a user-correctable failure that
// should re-render the form instead of producing a server error.
func isValidationErr(err error) bool {
	for _, v := range []error{
		models.ErrPasswordMismatch,
		models.ErrPasswordTooShort,
		models.ErrDuplicateIdentity,
		models.ErrInvalidCredentials,
		models.ErrWrongPassword,
		models.ErrEmptyField,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

type categoryView struct {
	models.Category
	TopicCount int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	categories, err := s.Categories.List()
	if err != nil {
		s.internalError(w, "list categories", err)
		return
	}
	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		n, err := s.Topics.CountByCategory(c.ID)
		if err != nil {
			s.internalError(w, "count topics", err)
			return
		}
		views = append(views, categoryView{Category: c, TopicCount: n})
	}
	s.render(w, "index", map[string]any{
		"User":       s.currentUser(),
		"Categories": views,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "register", map[string]any{
			"User": s.currentUser(), "Username": "", "Email": "",
		})
	case http.MethodPost:
		username := strings.TrimSpace(r.FormValue("username"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("confirm_password")
		if _, err := s.Users.Register(username, email, password, confirm); err != nil {
			if isValidationErr(err) {
				s.render(w, "register", map[string]any{
					"User": s.currentUser(), "Error": err.Error(),
					"Username": username, "Email": email,
				})
				return
			}
			s.internalError(w, "register", err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login", map[string]any{"User": s.currentUser(), "Username": ""})
	case http.MethodPost:
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		user, err := s.Users.Authenticate(username, password)
		if err != nil {
			if isValidationErr(err) {
				s.render(w, "login", map[string]any{
					"User": s.currentUser(), "Error": err.Error(), "Username": username,
				})
				return
			}
			s.internalError(w, "authenticate", err)
			return
		}
		if err := s.Sessions.Login(user); err != nil {
			s.internalError(w, "login", err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Sessions.Logout(); err != nil {
		s.internalError(w, "logout", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, su models.SessionUser) {
	switch r.Method {
	case http.MethodGet:
		s.renderProfile(w, su.ID, "", "")
	case http.MethodPost:
		username := strings.TrimSpace(r.FormValue("username"))
		email := strings.TrimSpace(r.FormValue("email"))
		if _, err := s.Users.UpdateProfile(su.ID, username, email); err != nil {
			if isValidationErr(err) {
				s.renderProfile(w, su.ID, err.Error(), "")
				return
			}
			if errors.Is(err, models.ErrUserNotFound) {
				s.forceLogout(w, r)
				return
			}
			s.internalError(w, "update profile", err)
			return
		}
		s.renderProfile(w, su.ID, "", "Profile updated")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, su models.SessionUser) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	current := r.FormValue("current_password")
	newPw := r.FormValue("new_password")
	confirm := r.FormValue("confirm_new_password")
	if err := s.Users.ChangePassword(su.ID, current, newPw, confirm); err != nil {
		if isValidationErr(err) {
			s.renderProfile(w, su.ID, err.Error(), "")
			return
		}
		if errors.Is(err, models.ErrUserNotFound) {
			s.forceLogout(w, r)
			return
		}
		s.internalError(w, "change password", err)
		return
	}
	s.renderProfile(w, su.ID, "", "Password changed")
}

// renderProfile always reads the authoritative user record, not the
// session copy.
func (s *Server) renderProfile(w http.ResponseWriter, userID int64, errMsg, okMsg string) {
	user, ok, err := s.Users.Get(userID)
	if err != nil {
		s.internalError(w, "load profile", err)
		return
	}
	if !ok {
		// Session points at a user that no longer resolves.
		s.Sessions.Logout()
		s.render(w, "login", map[string]any{
			"User": nil, "Username": "", "Error": "please log in again",
		})
		return
	}
	s.render(w, "profile", map[string]any{
		"User":    s.currentUser(),
		"Profile": user,
		"Error":   errMsg,
		"Success": okMsg,
	})
}

func (s *Server) forceLogout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Logout()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type topicView struct {
	models.Topic
	Author  string
	Replies int
	Excerpt string
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id := atoi64(r.URL.Query().Get("id"))
	if id == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	category, ok, err := s.Categories.Get(id)
	if err != nil {
		s.internalError(w, "load category", err)
		return
	}
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	topics, err := s.Topics.ListByCategory(id)
	if err != nil {
		s.internalError(w, "list topics", err)
		return
	}
	users, err := s.Users.All()
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	views := make([]topicView, 0, len(topics))
	for _, t := range topics {
		replies, err := s.Posts.CountByTopic(t.ID)
		if err != nil {
			s.internalError(w, "count posts", err)
			return
		}
		views = append(views, topicView{
			Topic:   t,
			Author:  models.ResolveUsername(users, t.UserID),
			Replies: replies,
			Excerpt: excerpt(t.Content, 150),
		})
	}
	s.render(w, "category", map[string]any{
		"User":     s.currentUser(),
		"Category": category,
		"Topics":   views,
	})
}

func (s *Server) handleNewCategory(w http.ResponseWriter, r *http.Request, su models.SessionUser) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "new_category", map[string]any{
			"User": s.currentUser(), "Name": "", "Description": "",
		})
	case http.MethodPost:
		name := r.FormValue("name")
		description := r.FormValue("description")
		if _, err := s.Categories.Create(name, description); err != nil {
			if isValidationErr(err) {
				s.render(w, "new_category", map[string]any{
					"User": s.currentUser(), "Error": err.Error(),
					"Name": name, "Description": description,
				})
				return
			}
			s.internalError(w, "create category", err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleNewTopic(w http.ResponseWriter, r *http.Request, su models.SessionUser) {
	switch r.Method {
	case http.MethodGet:
		categoryID := atoi64(r.URL.Query().Get("categoryId"))
		if categoryID == 0 {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, "new_topic", map[string]any{
			"User": s.currentUser(), "CategoryID": categoryID,
			"Title": "", "Content": "",
		})
	case http.MethodPost:
		categoryID := atoi64(r.FormValue("category_id"))
		if categoryID == 0 {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		title := r.FormValue("title")
		content := r.FormValue("content")
		if _, err := s.Topics.Create(categoryID, su.ID, title, content); err != nil {
			if isValidationErr(err) {
				s.render(w, "new_topic", map[string]any{
					"User": s.currentUser(), "CategoryID": categoryID,
					"Error": err.Error(), "Title": title, "Content": content,
				})
				return
			}
			s.internalError(w, "create topic", err)
			return
		}
		http.Redirect(w, r, "/category?id="+itoa64(categoryID), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type postView struct {
	models.Post
	Author string
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	id := atoi64(r.URL.Query().Get("id"))
	if id == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	topic, ok, err := s.Topics.Get(id)
	if err != nil {
		s.internalError(w, "load topic", err)
		return
	}
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	users, err := s.Users.All()
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	categoryName := models.UnknownName
	if category, ok, err := s.Categories.Get(topic.CategoryID); err != nil {
		s.internalError(w, "load category", err)
		return
	} else if ok {
		categoryName = category.Name
	}
	posts, err := s.Posts.ListByTopic(id)
	if err != nil {
		s.internalError(w, "list posts", err)
		return
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{Post: p, Author: models.ResolveUsername(users, p.UserID)})
	}
	s.render(w, "topic", map[string]any{
		"User":         s.currentUser(),
		"Topic":        topic,
		"Author":       models.ResolveUsername(users, topic.UserID),
		"CategoryName": categoryName,
		"Posts":        views,
	})
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request, su models.SessionUser) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	topicID := atoi64(r.FormValue("topic_id"))
	if topicID == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	content := r.FormValue("content")
	if _, err := s.Posts.Create(topicID, su.ID, content); err != nil {
		if isValidationErr(err) {
			http.Redirect(w, r, "/topic?id="+itoa64(topicID), http.StatusSeeOther)
			return
		}
		s.internalError(w, "create post", err)
		return
	}
	http.Redirect(w, r, "/topic?id="+itoa64(topicID), http.StatusSeeOther)
}

// middleware
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, models.SessionUser)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		su, ok, err := s.Sessions.Current()
		if err != nil {
			s.internalError(w, "load session", err)
			return
		}
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, su)
	}
}

// currentUser returns the session copy for rendering, or nil when logged
// out, so templates can branch on it.
func (s *Server) currentUser() *models.SessionUser {
	su, ok, err := s.Sessions.Current()
	if err != nil || !ok {
		return nil
	}
	return &su
}

// helpers
func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func itoa64(i int64) string {
	return strconv.FormatInt(i, 10)
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
