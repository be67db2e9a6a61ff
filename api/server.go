package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/blutech18/LDCU-Tabulation-sub001/api/controllers"
	"github.com/blutech18/LDCU-Tabulation-sub001/api/transport"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
	"github.com/blutech18/LDCU-Tabulation-sub001/tabulation"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)

	scoreStorage := &storage.DynamoScoreStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameScores,
	}
	participantStorage := &storage.DynamoParticipantStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameParticipants,
	}
	criterionStorage := &storage.DynamoCriterionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCriteria,
	}
	categoryStorage := &storage.DynamoCategoryStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCategories,
	}
	activityStorage := &storage.DynamoActivityStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameActivityLog,
	}

	sessions := tabulation.NewManager(tabulation.SessionStores{
		Scores:       scoreStorage,
		Participants: participantStorage,
		Criteria:     criterionStorage,
		Categories:   categoryStorage,
		Activity:     activityStorage,
	}, s.config.AutosaveDelay)

	//Register controllers
	scoringController := controllers.NewScoringController(sessions)
	scoringController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(scoreStorage, participantStorage, categoryStorage, s.config.DefaultMode)
	resultsController.RegisterRoutes(r)
	metaParticipantController := controllers.NewParticipantMetaController(participantStorage)
	metaParticipantController.RegisterRoutes(r)
	metaCategoryController := controllers.NewCategoryMetaController(categoryStorage)
	metaCategoryController.RegisterRoutes(r)
	metaCriterionController := controllers.NewCriterionMetaController(criterionStorage)
	metaCriterionController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(activityStorage)
	adminController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
