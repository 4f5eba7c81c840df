package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"portfolio-manager/portfolios-service/handlers"
	"portfolio-manager/portfolios-service/logging"
	"portfolio-manager/portfolios-service/repositories"
	"portfolio-manager/portfolios-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createProjectNameIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on project name: %v", err)
	}
	return nil
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Portfolios Service...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "portfolios_db"
	}
	membersAPIURL := os.Getenv("MEMBERS_API_URL")
	if membersAPIURL == "" {
		membersAPIURL = "http://localhost:9090"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	projectsCollection := db.Collection("projects")
	membersCollection := db.Collection("members")

	if err := createProjectNameIndex(projectsCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	projectStore := repositories.NewMongoProjectStore(projectsCollection)
	membersAPI := services.NewMembersAPIClient(membersAPIURL)
	memberService := services.NewMemberService(membersCollection, membersAPI)
	teamValidator := services.NewTeamValidator(memberService, projectStore)
	projectService := services.NewProjectService(projectStore, memberService, teamValidator)
	reportService := services.NewReportService(projectStore)

	projectHandler := handlers.NewProjectHandler(projectService, reportService)
	memberHandler := handlers.NewMemberHandler(memberService)

	r := mux.NewRouter()
	r.HandleFunc("/api/projects/report", projectHandler.GeneratePortfolioReport).Methods("GET")
	r.HandleFunc("/api/projects", projectHandler.CreateProject).Methods("POST")
	r.HandleFunc("/api/projects", projectHandler.ListProjects).Methods("GET")
	r.HandleFunc("/api/projects/{id}", projectHandler.GetProjectByID).Methods("GET")
	r.HandleFunc("/api/projects/{id}", projectHandler.UpdateProject).Methods("PUT")
	r.HandleFunc("/api/projects/{id}", projectHandler.DeleteProject).Methods("DELETE")
	r.HandleFunc("/api/projects/{id}/status", projectHandler.ChangeProjectStatus).Methods("PATCH")
	r.HandleFunc("/api/members", memberHandler.CreateMember).Methods("POST")
	r.HandleFunc("/api/members", memberHandler.GetAllMembers).Methods("GET")
	r.HandleFunc("/api/members/{id}", memberHandler.GetMemberByID).Methods("GET")

	corsRouter := enableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logging.Logger.Infof("Event ID: SERVER_START, Description: Portfolios service server running on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
