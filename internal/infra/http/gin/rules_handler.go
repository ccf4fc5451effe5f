package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	rulesapp "rentcal/internal/app/handlers/rules"
)

type RulesHandler struct {
	Commands commands.Bus
}

type addRuleRequest struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

func (h RulesHandler) Add(c *gin.Context) {
	var req addRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err.Error())
		return
	}
	start, err := parseDate("start", req.Start)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	end, err := parseDate("end", req.End)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	cmd := rulesapp.AddRuleCommand{
		PropertyID: c.Param("id"),
		RuleID:     req.ID,
		Type:       req.Type,
		Start:      start,
		End:        end,
		Value:      req.Value,
		Reason:     req.Reason,
	}
	result, err := commands.Dispatch[rulesapp.AddRuleCommand, dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RulesHandler) Remove(c *gin.Context) {
	cmd := rulesapp.RemoveRuleCommand{PropertyID: c.Param("id"), RuleID: c.Param("rule_id")}
	result, err := commands.Dispatch[rulesapp.RemoveRuleCommand, dto.Rule](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ RulesHTTP = RulesHandler{}
