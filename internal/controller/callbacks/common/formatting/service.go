package formatting

import (
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

var serviceNames = map[model.ServiceKind]string{
	model.ServiceIceLaser:         "Лазер (лёд)",
	model.ServiceAlexLaser:        "Лазер (александрит)",
	model.ServiceLaserHairRemoval: "Лазерная эпиляция",
	model.ServiceSkinCare:         "Уход за кожей",
	model.ServiceNailArt:          "Нейл-арт",
	model.ServiceFatBurning:       "Жиросжигание",
	model.ServiceMassage:          "Массаж",
	model.ServiceHaircut:          "Стрижка",
}

var areaNames = map[model.LaserArea]string{
	model.LaserAreaFace:     "лицо",
	model.LaserAreaUnderarm: "подмышки",
	model.LaserAreaArm:      "руки",
	model.LaserAreaLeg:      "ноги",
	model.LaserAreaBikini:   "бикини",
	model.LaserAreaBack:     "спина",
	model.LaserAreaChest:    "грудь",
	model.LaserAreaGenital:  "глубокое бикини",
	model.LaserAreaFullLeg:  "ноги полностью",
	model.LaserAreaHalfLeg:  "голени",
}

// ServiceName название услуги для показа. Неизвестные услуги показываются как есть.
func ServiceName(kind model.ServiceKind) string {
	if name, ok := serviceNames[model.ServiceKind(strings.ToLower(strings.TrimSpace(string(kind))))]; ok {
		return name
	}
	return string(kind)
}

// AreaName название зоны лазера
func AreaName(area model.LaserArea) string {
	if name, ok := areaNames[area]; ok {
		return name
	}
	return string(area)
}

// FormatService услуга вместе с зонами
func FormatService(s model.Service) string {
	name := ServiceName(s.Kind)
	if len(s.LaserAreas) == 0 {
		return name
	}
	areas := make([]string, len(s.LaserAreas))
	for i, area := range s.LaserAreas {
		areas[i] = AreaName(area)
	}
	return name + " (" + strings.Join(areas, ", ") + ")"
}
