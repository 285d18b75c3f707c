package model

import "strings"

// ServiceKind название услуги в том виде, в котором оно хранится в базе
type ServiceKind string

const (
	ServiceIceLaser         ServiceKind = "buz lazer"
	ServiceAlexLaser        ServiceKind = "alex lazer"
	ServiceLaserHairRemoval ServiceKind = "lazer epilasyon"
	ServiceSkinCare         ServiceKind = "cilt bakımı"
	ServiceNailArt          ServiceKind = "nail art"
	ServiceFatBurning       ServiceKind = "yağ yakımı"
	ServiceMassage          ServiceKind = "masaj"
	ServiceHaircut          ServiceKind = "saç kesimi"
)

// KnownServices список услуг салона в порядке отображения
var KnownServices = []ServiceKind{
	ServiceIceLaser,
	ServiceAlexLaser,
	ServiceLaserHairRemoval,
	ServiceSkinCare,
	ServiceNailArt,
	ServiceFatBurning,
	ServiceMassage,
	ServiceHaircut,
}

// IsLaser показывает, что для услуги выбираются зоны лазера
func (k ServiceKind) IsLaser() bool {
	switch ServiceKind(strings.ToLower(strings.TrimSpace(string(k)))) {
	case ServiceIceLaser, ServiceAlexLaser, ServiceLaserHairRemoval:
		return true
	}
	return false
}

// LaserArea зона тела для лазерной процедуры
type LaserArea string

const (
	LaserAreaFace     LaserArea = "yuz"
	LaserAreaUnderarm LaserArea = "koltuk_alti"
	LaserAreaArm      LaserArea = "kol"
	LaserAreaLeg      LaserArea = "bacak"
	LaserAreaBikini   LaserArea = "bikini"
	LaserAreaBack     LaserArea = "sirt"
	LaserAreaChest    LaserArea = "gogus"
	LaserAreaGenital  LaserArea = "genital_bolge"
	LaserAreaFullLeg  LaserArea = "tam_bacak"
	LaserAreaHalfLeg  LaserArea = "yarim_bacak"
)

// Service услуга записи. Зоны лазера имеют смысл только для лазерных услуг.
type Service struct {
	Kind       ServiceKind `json:"kind"`
	LaserAreas []LaserArea `json:"laser_areas,omitempty"`
}

// NewService создаёт услугу, отбрасывая зоны для нелазерных услуг
func NewService(kind ServiceKind, areas []LaserArea) Service {
	kind = ServiceKind(strings.TrimSpace(string(kind)))
	if !kind.IsLaser() || len(areas) == 0 {
		return Service{Kind: kind}
	}

	seen := make(map[LaserArea]struct{}, len(areas))
	unique := make([]LaserArea, 0, len(areas))
	for _, area := range areas {
		area = LaserArea(strings.TrimSpace(string(area)))
		if area == "" {
			continue
		}
		if _, ok := seen[area]; ok {
			continue
		}
		seen[area] = struct{}{}
		unique = append(unique, area)
	}
	if len(unique) == 0 {
		return Service{Kind: kind}
	}
	return Service{Kind: kind, LaserAreas: unique}
}

func (s Service) String() string {
	if len(s.LaserAreas) == 0 {
		return string(s.Kind)
	}
	areas := make([]string, len(s.LaserAreas))
	for i, area := range s.LaserAreas {
		areas[i] = string(area)
	}
	return string(s.Kind) + " (" + strings.Join(areas, ", ") + ")"
}
