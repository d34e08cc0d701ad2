package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kintaihub/kintai-backend-go/internal/config"
	appHTTP "github.com/kintaihub/kintai-backend-go/internal/handler/http"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/database"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintaihub/kintai-backend-go/internal/pkg/storage"
	"github.com/kintaihub/kintai-backend-go/internal/repository/postgresql"
	approvalService "github.com/kintaihub/kintai-backend-go/internal/service/approval"
	expenseService "github.com/kintaihub/kintai-backend-go/internal/service/expense"
	"github.com/kintaihub/kintai-backend-go/internal/service/file"
	timecardService "github.com/kintaihub/kintai-backend-go/internal/service/timecard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	ledgerRepo := postgresql.NewLedgerRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)
	roleProvider := postgresql.NewRoleProvider(db)
	holidayCalendar := postgresql.NewHolidayCalendar(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	timecardSvc := timecardService.NewTimecardService(txManager, ledgerRepo, holidayCalendar)
	approvalSvc := approvalService.NewApprovalService(txManager, ledgerRepo, auditRepo, roleProvider)
	expenseSvc := expenseService.NewExpenseService(txManager, expenseRepo, ledgerRepo, fileService)

	timecardHandler := appHTTP.NewTimecardHandler(timecardSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	expenseHandler := appHTTP.NewExpenseHandler(expenseSvc)

	router := appHTTP.NewRouter(
		JWTService,
		timecardHandler,
		approvalHandler,
		expenseHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
