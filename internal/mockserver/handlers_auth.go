package mockserver

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/tripwell/tripkit/pkg/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authPayload struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if !ok || acct.password != req.Password {
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := s.tokens.mint(acct.user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not issue token.", nil)
		return
	}
	s.writeData(w, http.StatusOK, authPayload{User: acct.user, Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	errs := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = append(errs["name"], "The name field is required.")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = append(errs["email"], "The email must be a valid email address.")
	}
	if len(req.Password) < 8 {
		errs["password"] = append(errs["password"], "The password must be at least 8 characters.")
	}
	if len(errs) > 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", errs)
		return
	}

	email := strings.ToLower(req.Email)

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"email": {"The email has already been taken."},
		})
		return
	}
	user := domain.User{
		ID:    s.nextUser,
		Name:  req.Name,
		Email: email,
		Phone: req.Phone,
	}
	s.nextUser++
	s.accounts[email] = &account{user: user, password: req.Password}
	s.mu.Unlock()

	token, err := s.tokens.mint(user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not issue token.", nil)
		return
	}
	s.writeData(w, http.StatusCreated, authPayload{User: user, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout succeeds as long as the token verified.
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out."})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userByID(userIDFrom(r.Context()))
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
		return
	}
	s.writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !s.decode(w, r, &fields) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.accountByIDLocked(userIDFrom(r.Context()))
	if acct == nil {
		s.writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
		return
	}

	if name, ok := fields["name"].(string); ok {
		if strings.TrimSpace(name) == "" {
			s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
				"name": {"The name field is required."},
			})
			return
		}
		acct.user.Name = name
	}
	if phone, ok := fields["phone"].(string); ok {
		acct.user.Phone = phone
	}
	for k, v := range fields {
		switch k {
		case "name", "phone", "email", "id":
			// email and id are immutable here; name and phone handled above
		default:
			if acct.user.Extra == nil {
				acct.user.Extra = make(map[string]any)
			}
			acct.user.Extra[k] = v
		}
	}

	s.writeData(w, http.StatusOK, acct.user)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"email": {"The email must be a valid email address."},
		})
		return
	}
	// Whether or not the account exists, answer the same way.
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "If the email exists, a reset link has been sent."})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"message": {"The message field is required."},
		})
		return
	}
	s.logger.Info("contact message received", "from", req.Email, "subject", req.Subject)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Thanks for reaching out!"})
}

func (s *Server) userByID(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct := s.accountByIDLocked(id); acct != nil {
		return acct.user, true
	}
	return domain.User{}, false
}

func (s *Server) accountByIDLocked(id int64) *account {
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct
		}
	}
	return nil
}
