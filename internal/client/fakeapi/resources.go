package fakeapi

import (
	"io"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) listKnowledgeBases(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]models.KnowledgeBase{}, s.kbs...))
}

type nameBody struct {
	Name string `json:"name"`
}

func (s *Server) createKnowledgeBase(c echo.Context) error {
	var req nameBody
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return invalid(c, []models.FieldError{{Field: "name", Message: "Name is required"}})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kb := models.KnowledgeBase{ID: models.ID(uuid.NewString()), Title: req.Name, UpdatedAt: time.Now().UTC()}
	s.kbs = append(s.kbs, kb)
	return ok(c, "Knowledge base created", kb)
}

func (s *Server) renameKnowledgeBase(c echo.Context) error {
	var req nameBody
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.kbs, func(kb models.KnowledgeBase) bool { return kb.ID == models.ID(c.Param("id")) })
	if i < 0 {
		return fail(c, http.StatusNotFound, "Knowledge base not found")
	}
	s.kbs[i].Title = req.Name
	s.kbs[i].UpdatedAt = time.Now().UTC()
	return ok(c, "Knowledge base updated", s.kbs[i])
}

func (s *Server) deleteKnowledgeBase(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := models.ID(c.Param("id"))
	n := len(s.kbs)
	s.kbs = slices.DeleteFunc(s.kbs, func(kb models.KnowledgeBase) bool { return kb.ID == id })
	if len(s.kbs) == n {
		return fail(c, http.StatusNotFound, "Knowledge base not found")
	}
	return ok(c, "Knowledge base deleted", nil)
}

func (s *Server) listFiles(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kb := models.ID(c.Param("kb"))
	out := []models.File{}
	for _, f := range s.files {
		if f.KnowledgeBaseID == kb {
			out = append(out, f)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) findFileLocked(id models.ID) int {
	return slices.IndexFunc(s.files, func(f models.File) bool { return f.ID == id })
}

func (s *Server) getFile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findFileLocked(models.ID(c.Param("id")))
	if i < 0 {
		return fail(c, http.StatusNotFound, "File not found")
	}
	f := s.files[i]
	f.Path = s.srv.URL + "/download/" + f.ID.String()
	return c.JSON(http.StatusOK, f)
}

func (s *Server) renameFile(c echo.Context) error {
	var req models.FileRename
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findFileLocked(models.ID(c.Param("id")))
	if i < 0 {
		return fail(c, http.StatusNotFound, "File not found")
	}
	s.files[i].Name = req.Name
	return ok(c, "File renamed", s.files[i])
}

func (s *Server) deleteFile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := models.ID(c.Param("id"))
	i := s.findFileLocked(id)
	if i < 0 {
		return fail(c, http.StatusNotFound, "File not found")
	}
	s.files = slices.Delete(s.files, i, i+1)
	delete(s.contents, id)
	return ok(c, "File deleted", nil)
}

func (s *Server) uploadFiles(c echo.Context) error {
	kb := models.ID(c.QueryParam("knowledge_base_id"))
	if kb == "" {
		return fail(c, http.StatusBadRequest, "knowledge_base_id is required")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid multipart body")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return fail(c, http.StatusBadRequest, "no files")
	}

	type upload struct {
		name string
		data []byte
	}
	uploads := make([]upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return fail(c, http.StatusBadRequest, "unreadable file")
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return fail(c, http.StatusBadRequest, "unreadable file")
		}
		uploads = append(uploads, upload{name: h.Filename, data: data})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.File, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, s.addFileLocked(kb, u.name, u.data))
	}
	for i := range s.kbs {
		if s.kbs[i].ID == kb {
			s.kbs[i].Docs += len(out)
		}
	}
	return ok(c, "Files uploaded", out)
}

func (s *Server) downloadFile(c echo.Context) error {
	s.mu.Lock()
	data, found := s.contents[models.ID(c.Param("id"))]
	s.mu.Unlock()
	if !found {
		return fail(c, http.StatusNotFound, "File not found")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) listAssistants(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, "success", append([]models.Assistant{}, s.assistant...))
}

func (s *Server) createAssistant(c echo.Context) error {
	var a models.Assistant
	if err := c.Bind(&a); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(a.Name) == "" {
		return invalid(c, []models.FieldError{{Field: "name", Message: "Name is required"}})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = models.ID(uuid.NewString())
	s.assistant = append(s.assistant, a)
	return ok(c, "Assistant created", a)
}

func (s *Server) deleteAssistant(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := models.ID(c.Param("id"))
	n := len(s.assistant)
	s.assistant = slices.DeleteFunc(s.assistant, func(a models.Assistant) bool { return a.ID == id })
	if len(s.assistant) == n {
		return fail(c, http.StatusNotFound, "Assistant not found")
	}
	return ok(c, "Assistant deleted", nil)
}

func (s *Server) listConversations(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assistant := models.ID(c.QueryParam("assistant_id"))
	out := []models.Conversation{}
	for _, conv := range s.convs {
		if assistant == "" || conv.AssistantID == assistant {
			conv.Messages = nil
			out = append(out, conv)
		}
	}
	return ok(c, "success", out)
}

func (s *Server) createConversation(c echo.Context) error {
	var req models.NewConversation
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := models.Conversation{
		ID:          models.ID(uuid.NewString()),
		Name:        req.Name,
		AssistantID: req.AssistantID,
		Messages:    []models.Message{},
	}
	s.convs = append(s.convs, conv)
	return ok(c, "Conversation created", conv)
}

func (s *Server) findConvLocked(id models.ID) int {
	return slices.IndexFunc(s.convs, func(conv models.Conversation) bool { return conv.ID == id })
}

func (s *Server) getConversation(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findConvLocked(models.ID(c.Param("id")))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Conversation not found")
	}
	return ok(c, "success", s.convs[i])
}

// sendMessage answers every user turn with an echo of it.
func (s *Server) sendMessage(c echo.Context) error {
	var msg models.Message
	if err := c.Bind(&msg); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findConvLocked(models.ID(c.Param("id")))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Conversation not found")
	}
	now := time.Now().UTC()
	msg.Role = "user"
	msg.CreatedAt = now
	reply := models.Message{Role: "assistant", Content: "echo: " + msg.Content, CreatedAt: now}
	s.convs[i].Messages = append(s.convs[i].Messages, msg, reply)
	return ok(c, "success", reply)
}

// usernameFilter extracts x from the RSQL filter username=="*x*".
func usernameFilter(query string) string {
	q := strings.TrimPrefix(query, "username==")
	q = strings.Trim(q, `"`)
	return strings.Trim(q, "*")
}

func (s *Server) searchUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = 10
	}
	filter := strings.ToLower(usernameFilter(c.QueryParam("query")))

	s.mu.Lock()
	var matched []models.User
	for _, a := range s.accounts {
		if filter == "" || strings.Contains(strings.ToLower(a.Username), filter) {
			matched = append(matched, a.User)
		}
	}
	s.mu.Unlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	content := []models.User{}
	if from := page * size; from < len(matched) {
		content = matched[from:min(from+size, len(matched))]
	}
	return c.JSON(http.StatusOK, models.Page[models.User]{Content: content, TotalElements: len(matched)})
}

func (s *Server) findAccountLocked(id models.ID) *Account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) getUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccountLocked(models.ID(c.Param("id")))
	if a == nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return ok(c, "success", a.User)
}

func (s *Server) updateUser(c echo.Context) error {
	var req models.UserUpdate
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccountLocked(models.ID(c.Param("id")))
	if a == nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	oldEmail := a.Email
	a.FullName, a.Username, a.Email, a.Role = req.FullName, req.Username, req.Email, req.Role
	a.UpdatedAt = time.Now().UTC()
	if oldEmail != a.Email {
		delete(s.accounts, oldEmail)
		s.accounts[a.Email] = a
	}
	return ok(c, "User updated", a.User)
}

func (s *Server) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccountLocked(models.ID(c.Param("id")))
	if a == nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	delete(s.accounts, a.Email)
	return ok(c, "User deleted", nil)
}
