package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// ValidateInput handles the JSON-based validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	// Basic validation of data structures
	if len(input.Rooms) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one room is required",
		})
		return
	}

	if len(input.Sessions) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one session is required",
		})
		return
	}

	var problems []string
	if input.Days < 0 || input.Days > h.Config.MaxDays {
		problems = append(problems, "days out of range")
	}
	if input.EquipmentPolicy != "" {
		if _, err := scheduler.ParseEquipmentPolicy(input.EquipmentPolicy); err != nil {
			problems = append(problems, err.Error())
		}
	}
	problems = append(problems, h.Config.Grid().Check(input.Sessions, input.Rooms)...)

	if len(problems) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid":    false,
			"error":    problems[0],
			"problems": problems,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"room_count":    len(input.Rooms),
			"session_count": len(input.Sessions),
		},
	})
}
