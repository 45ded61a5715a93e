package main

import (
	"net/http"

	"github.com/SreeHarith/ocr-app/internal/classify"
	"github.com/SreeHarith/ocr-app/internal/contacts/handler"
	"github.com/SreeHarith/ocr-app/internal/contacts/repository"
	"github.com/SreeHarith/ocr-app/internal/contacts/service"
	"github.com/SreeHarith/ocr-app/internal/contacts/validator"
	"github.com/SreeHarith/ocr-app/internal/events"
	"github.com/SreeHarith/ocr-app/internal/gender"
	"github.com/SreeHarith/ocr-app/internal/imagehost"
	"github.com/SreeHarith/ocr-app/internal/normalize"
	"github.com/SreeHarith/ocr-app/internal/review"
	"github.com/SreeHarith/ocr-app/internal/vision"
	"github.com/SreeHarith/ocr-app/pkg/app"
	"github.com/SreeHarith/ocr-app/pkg/config"
)

const ServiceName = "contacts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Contacts service")

	serverApp := app.NewApplication()
	api := initAPI(cfg, serverApp)
	serverApp.SetApp(cfg, api)
	serverApp.Run()
}

func initAPI(cfg *config.Config, serverApp *app.Application) *handler.API {
	upstreamHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}

	var genderLookup classify.GenderLookup
	if cfg.GenderAPIKey != "" {
		genderLookup = gender.NewClient(cfg.GenderAPIBaseURL, cfg.GenderAPIKey, upstreamHTTP, cfg.Log)
	}

	classifier := classify.New(normalize.PhoneOptions{
		DefaultRegion: cfg.DefaultPhoneRegion,
		MobileOnly:    cfg.MobileOnly,
	}, genderLookup, cfg.Log)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, ServiceName, cfg.Log)
	serverApp.OnShutdown(publisher.Close)

	contactRepo := repository.NewMongoContactRepository(cfg)
	contactService := service.NewContactService(
		contactRepo,
		validator.NewContactValidator(),
		classifier,
		publisher,
		cfg,
	)

	reviewStore := review.NewStore(cfg.ReviewSessionTTL)
	serverApp.OnShutdown(reviewStore.Stop)
	reviewService := review.NewService(reviewStore, classifier, contactService, contactService, cfg.Log)

	var visionClient *vision.Client
	if cfg.OpenRouterAPIKey != "" {
		visionClient = vision.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.VisionModel, upstreamHTTP, cfg.Log)
	}

	var imagehostClient *imagehost.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		imagehostClient = imagehost.NewClient(cfg.CloudinaryBaseURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, upstreamHTTP, cfg.Log)
	}

	cfg.Log.Info("Contact service initialized",
		"database", cfg.MongoDatabaseName,
		"gender_lookup", genderLookup != nil,
		"vision", visionClient != nil,
		"image_hosting", imagehostClient != nil,
	)

	return handler.NewAPI(
		handler.NewContactHandler(contactService, reviewService, cfg.Log),
		handler.NewOCRHandler(visionClient, imagehostClient, reviewService, cfg.Log),
		handler.NewReviewHandler(reviewService, cfg.Log),
	)
}
