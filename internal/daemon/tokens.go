package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/models"
	sessionManager "github.com/thand-io/components/internal/sessions"
	"github.com/thand-io/components/internal/services"
)

func (s *Server) tokensResponse(state sessionManager.State) models.TokensResponse {
	return models.TokensResponse{
		Tokens:    state.Tokens,
		Operators: state.Operators,
		Query:     services.BuildConceptQuery(state.Tokens, state.Operators),
	}
}

// getTokens returns the search tokens of the session
//
//	@Summary	List search tokens
//	@Tags		tokens
//	@Produce	json
//	@Success	200	{object}	models.TokensResponse
//	@Router		/api/v1/tokens [get]
func (s *Server) getTokens(c *gin.Context) {
	session := sessions.Default(c)
	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}

// postToken adds a token, replacing any token with the same id in place
//
//	@Summary	Add a search token
//	@Tags		tokens
//	@Accept		json
//	@Produce	json
//	@Param		token	body		models.SessionToken	true	"Token"
//	@Success	200		{object}	models.TokensResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/v1/tokens [post]
func (s *Server) postToken(c *gin.Context) {

	var token models.SessionToken
	if err := c.ShouldBindJSON(&token); err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid token", err)
		return
	}

	session := sessions.Default(c)

	if _, err := s.Tokens.Add(session, token); err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid token", err)
		return
	}

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}

// postConceptToken looks the concept up on the backend and adds it as a
// token
//
//	@Summary	Add a concept as a search token
//	@Tags		tokens
//	@Produce	json
//	@Param		id	path		string	true	"Concept id"
//	@Success	200	{object}	models.TokensResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/v1/tokens/concepts/{id} [post]
func (s *Server) postConceptToken(c *gin.Context) {

	conceptID := c.Param("id")

	result := s.Concepts.GetByIDs(c.Request.Context(), []string{conceptID}, accessToken(c))

	success, ok := result.(api.Success)
	if !ok {
		s.writeResultFailure(c, result)
		return
	}

	concepts, _ := success.Data.(map[string]models.Concept)
	concept, found := concepts[conceptID]
	if !found {
		s.writeError(c, http.StatusNotFound, "Concept not found",
			fmt.Errorf("no concept with id %q", conceptID))
		return
	}

	session := sessions.Default(c)

	if _, err := s.Tokens.Add(session, concept.Token()); err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid token", err)
		return
	}

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}

// putTokens replaces the whole token state
//
//	@Summary	Replace the search tokens
//	@Tags		tokens
//	@Accept		json
//	@Produce	json
//	@Param		state	body		sessionManager.State	true	"Tokens and operators"
//	@Success	200	{object}	models.TokensResponse
//	@Failure	400	{object}	models.ErrorResponse
//	@Router		/api/v1/tokens [put]
func (s *Server) putTokens(c *gin.Context) {

	var state sessionManager.State
	if err := c.ShouldBindJSON(&state); err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid token state", err)
		return
	}

	session := sessions.Default(c)

	stored, err := s.Tokens.Replace(session, state)
	if err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid token state", err)
		return
	}

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(stored))
}

// deleteToken removes a token and its operator. Unknown ids are ignored.
//
//	@Summary	Remove a search token
//	@Tags		tokens
//	@Produce	json
//	@Param		id	path		string	true	"Token id"
//	@Success	200	{object}	models.TokensResponse
//	@Router		/api/v1/tokens/{id} [delete]
func (s *Server) deleteToken(c *gin.Context) {

	session := sessions.Default(c)

	s.Tokens.Remove(session, c.Param("id"))

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}

// deleteTokens clears every token
//
//	@Summary	Clear the search tokens
//	@Tags		tokens
//	@Produce	json
//	@Success	200	{object}	models.TokensResponse
//	@Router		/api/v1/tokens [delete]
func (s *Server) deleteTokens(c *gin.Context) {

	session := sessions.Default(c)

	s.Tokens.Clear(session)

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}

// toggleOperator flips the operator between two tokens
//
//	@Summary	Toggle an operator between AND and OR
//	@Tags		tokens
//	@Produce	json
//	@Param		index	path		int	true	"Operator index"
//	@Success	200		{object}	models.TokensResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/v1/tokens/operators/{index}/toggle [post]
func (s *Server) toggleOperator(c *gin.Context) {

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, http.StatusBadRequest, "Invalid operator index", err)
		return
	}

	session := sessions.Default(c)

	if _, err := s.Tokens.ToggleOperator(session, index); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, sessionManager.ErrOperatorIndex) {
			code = http.StatusBadRequest
		}
		s.writeError(c, code, "Invalid operator index", err)
		return
	}

	if !s.saveSession(c, session) {
		return
	}

	c.JSON(http.StatusOK, s.tokensResponse(s.Tokens.State(session)))
}
