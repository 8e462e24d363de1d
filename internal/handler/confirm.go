package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryConfirmer answers the delete prompt from the `confirm` query parameter and remembers the
// prompt it was asked so it can be echoed back when the answer was no.
type queryConfirmer struct {
	answer bool
	prompt string
}

func confirmerFromQuery(c *gin.Context) *queryConfirmer {
	answer, _ := strconv.ParseBool(c.Query("confirm"))
	return &queryConfirmer{answer: answer}
}

func (q *queryConfirmer) Confirm(prompt string) bool {
	q.prompt = prompt
	return q.answer
}
