package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"bridged/internal/cache"
	"bridged/internal/lifecycle"
	"bridged/internal/logger"
	"bridged/internal/models"
	"bridged/internal/storage"
)

type Server struct {
	port  int
	db    *models.DB
	s3    *storage.S3Service
	cache *cache.QueryCache

	applications  *lifecycle.ApplicationService
	partnerships  *lifecycle.PartnershipService
	verifications *lifecycle.VerificationService
	deliverables  *lifecycle.DeliverableService
	extensions    *lifecycle.ExtensionService
	paperwork     *lifecycle.PaperworkService
	modelList     *lifecycle.ModelListService
	payments      *lifecycle.PaymentService
}

func (s *Server) GetDB() *models.DB {
	return s.db
}

func (s *Server) GetS3Service() *storage.S3Service {
	return s.s3
}

func (s *Server) GetCache() *cache.QueryCache {
	return s.cache
}

func (s *Server) Applications() *lifecycle.ApplicationService {
	return s.applications
}

func (s *Server) Partnerships() *lifecycle.PartnershipService {
	return s.partnerships
}

func (s *Server) Verifications() *lifecycle.VerificationService {
	return s.verifications
}

func (s *Server) Deliverables() *lifecycle.DeliverableService {
	return s.deliverables
}

func (s *Server) Extensions() *lifecycle.ExtensionService {
	return s.extensions
}

func (s *Server) Paperwork() *lifecycle.PaperworkService {
	return s.paperwork
}

func (s *Server) ModelList() *lifecycle.ModelListService {
	return s.modelList
}

func (s *Server) Payments() *lifecycle.PaymentService {
	return s.payments
}

func NewServer(db *models.DB) *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	log := logger.Get()

	s3Service, err := storage.NewS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	NewServer := &Server{
		port:  port,
		db:    db,
		s3:    s3Service,
		cache: cache.New(5 * time.Minute),

		applications:  lifecycle.NewApplicationService(db, log),
		partnerships:  lifecycle.NewPartnershipService(db, log),
		verifications: lifecycle.NewVerificationService(db, log),
		deliverables:  lifecycle.NewDeliverableService(db, log),
		extensions:    lifecycle.NewExtensionService(db, log),
		paperwork:     lifecycle.NewPaperworkService(db, log),
		modelList:     lifecycle.NewModelListService(db, log),
		payments:      lifecycle.NewPaymentService(db, log),
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
