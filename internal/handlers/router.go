package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
)

type HandlerManager struct {
	quizHandler    *QuizHandler
	attemptHandler *AttemptHandler
	resultHandler  *ResultHandler
	userHandler    *UserHandler
}

func NewHandlerManager(
	quizService services.QuizService,
	attemptService services.AttemptService,
	resultService services.ResultService,
	userService services.UserService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:    NewQuizHandler(quizService, logger),
		attemptHandler: NewAttemptHandler(attemptService, logger),
		resultHandler:  NewResultHandler(resultService, logger),
		userHandler:    NewUserHandler(userService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	// Account routes
	router.POST("/signup", hm.userHandler.SignUp)
	router.POST("/login", hm.userHandler.Login)
	router.GET("/teachers", hm.userHandler.Teachers)
	router.DELETE("/teachers/:id", hm.userHandler.DeleteTeacher)

	// Quiz routes
	router.POST("/create-quiz", hm.quizHandler.CreateQuiz)
	router.GET("/quizzes/:quizId", hm.quizHandler.GetQuiz)
	router.PUT("/quizzes/:quizId", hm.quizHandler.UpdateQuiz)
	router.DELETE("/quizzes/:quizId", hm.quizHandler.DeleteQuiz)
	router.GET("/my-quizzes/:userId", hm.quizHandler.MyQuizzes)
	router.GET("/live-quizzes", hm.quizHandler.LiveQuizzes)
	router.GET("/attempted-quizzes/:userId", hm.quizHandler.AttemptedQuizzes)

	// Attempt routes
	router.POST("/submit-quiz", hm.attemptHandler.SubmitQuiz)
	router.GET("/check-quiz-attempt", hm.attemptHandler.CheckQuizAttempt)
	router.GET("/quiz-review/:quizId/:studentId", hm.attemptHandler.QuizReview)

	// Result routes
	router.GET("/quiz-results/:quizId", hm.resultHandler.QuizResults)
	router.GET("/quiz-results/:quizId/export", hm.resultHandler.ExportQuizResults)
}
