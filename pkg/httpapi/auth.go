package httpapi

import (
	"net/http"

	"github.com/0xmhha/watchvault/pkg/session"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Sessions.Signup(req.Email, req.Password, req.Confirm); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, session.MsgSignedUp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Sessions.Login(req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, session.MsgLoggedIn)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Logout(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, session.MsgLoggedOut)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.deps.Sessions.Resume()
	s.handleSession(w, r)
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	email, ok := s.deps.Sessions.Current()
	s.writeJSON(w, http.StatusOK, sessionResponse{
		State:         s.deps.Sessions.State().String(),
		Email:         email,
		Authenticated: ok,
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if r.ContentLength != 0 {
		if err := decode(r, maxBodySize, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if err := s.deps.Sessions.DeleteAccount(req.Confirm); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, session.MsgDeleted)
}
