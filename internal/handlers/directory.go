package handlers

import (
	"log"

	"paygate/internal/repositories"
	"paygate/internal/repositories/cache"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DirectoryHandler struct {
	repo  repositories.DirectoryRepository
	cache *cache.Service
}

func NewDirectoryHandler(repo repositories.DirectoryRepository, cacheSvc *cache.Service) *DirectoryHandler {
	return &DirectoryHandler{repo: repo, cache: cacheSvc}
}

type directoryResponse struct {
	Banks   interface{} `json:"banks"`
	Wallets interface{} `json:"wallets"`
}

// GetDirectory handles GET /api/directory. Reference data changes only by
// re-seeding, so the response is cached.
func (h *DirectoryHandler) GetDirectory(c *fiber.Ctx) error {
	var cached directoryResponse
	if hit, err := h.cache.Get(c.Context(), cache.DirectoryKey, &cached); err == nil && hit {
		return c.JSON(cached)
	}

	banks, err := h.repo.ListActiveBanks(c.Context())
	if err != nil {
		return response.Domain(c, err)
	}
	wallets, err := h.repo.ListActiveWallets(c.Context())
	if err != nil {
		return response.Domain(c, err)
	}

	resp := directoryResponse{Banks: banks, Wallets: wallets}
	if err := h.cache.Set(c.Context(), cache.DirectoryKey, resp); err != nil {
		log.Printf("failed to cache directory: %v", err)
	}
	return c.JSON(resp)
}
