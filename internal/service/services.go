package service

import (
	"github.com/rsharma/socialnet/internal/config"
	"github.com/rsharma/socialnet/internal/repository"
)

type Services struct {
	Session *SessionManager
	User    *UserService
	Graph   *GraphService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	sessions := NewSessionManager(repos.Session)
	return &Services{
		Session: sessions,
		User:    NewUserService(repos.Profile, repos.Cache, sessions, repos.Publisher),
		Graph:   NewGraphService(repos.Profile, repos.Relationship, repos.Cache, repos.Publisher, cfg.FollowPageSize),
	}
}
