package mapper

import (
	"sort"
	"strconv"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
)

// UserToDTO converts entity to the public user shape returned on login.
func UserToDTO(u *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:         u.Id,
		Identifier: u.Identifier,
		Name:       u.Name,
		Role:       string(u.Role),
		Prodi:      u.Prodi,
		Angkatan:   u.Angkatan,
	}
}

// OperatorToCreateResponse converts a freshly created operator.
func OperatorToCreateResponse(u *entity.User) *dto.CreateOperatorResponse {
	if u == nil {
		return nil
	}
	sc := u.Scope()
	return &dto.CreateOperatorResponse{
		Id:         u.Id,
		Identifier: u.Identifier,
		Name:       u.Name,
		Prodi:      sc.Prodi,
		Angkatan:   sc.Angkatan,
	}
}

// OperatorsToListResponse converts multiple entities to list response DTOs
func OperatorsToListResponse(users []*entity.User) []dto.OperatorListResponse {
	res := make([]dto.OperatorListResponse, 0, len(users))
	for _, u := range users {
		res = append(res, dto.OperatorListResponse{
			Id:         u.Id,
			Identifier: u.Identifier,
			Name:       u.Name,
			Prodi:      u.Prodi,
			Angkatan:   u.Angkatan,
			IsActive:   u.IsActive,
			CreatedAt:  u.CreatedAt,
		})
	}
	return res
}

func TagihanToResponse(t *entity.Tagihan) dto.TagihanResponse {
	return dto.TagihanResponse{
		Id:                  t.Id,
		Title:               t.Title,
		Description:         t.Description,
		Jenis:               t.Jenis,
		ProdiTarget:         t.ProdiTarget,
		AngkatanTarget:      t.AngkatanTarget,
		Nominal:             t.Nominal,
		Deadline:            t.Deadline,
		IsActive:            t.IsActive,
		CreatedByOperatorId: t.CreatedByOperatorId,
		CreatedAt:           t.CreatedAt,
	}
}

func TagihanItemsToResponse(items []*entity.TagihanListItem) []dto.TagihanListItem {
	res := make([]dto.TagihanListItem, 0, len(items))
	for _, it := range items {
		res = append(res, dto.TagihanListItem{
			TagihanResponse: TagihanToResponse(it.Tagihan),
			CreatedByName:   it.CreatedByName,
			TotalPembayaran: it.TotalPembayaran,
			PaidCount:       it.PaidCount,
		})
	}
	return res
}

// StudentToResponse converts a roster row; hasPaid comes from the weekly payer set.
func StudentToResponse(s *entity.StudentSummary, hasPaid bool) dto.MahasiswaResponse {
	return dto.MahasiswaResponse{
		Id:              s.User.Id,
		Identifier:      s.User.Identifier,
		Name:            s.User.Name,
		Prodi:           s.User.Prodi,
		Angkatan:        s.User.Angkatan,
		IsActive:        s.User.IsActive,
		Balance:         s.Balance,
		HasPaidThisWeek: hasPaid,
	}
}

// ScopesToAvailable derives the scope pickers: prodi ascending, angkatan
// descending by numeric value within a prodi. Duplicates are dropped.
func ScopesToAvailable(scopes []entity.Scope) *dto.AvailableScopesResponse {
	res := &dto.AvailableScopesResponse{
		ProdiList:       []string{},
		AngkatanByProdi: map[string][]string{},
		Scopes:          []dto.ScopeDTO{},
	}

	unique := make([]entity.Scope, 0, len(scopes))
	seen := make(map[entity.Scope]bool, len(scopes))
	for _, sc := range scopes {
		if !seen[sc] {
			seen[sc] = true
			unique = append(unique, sc)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Prodi != unique[j].Prodi {
			return unique[i].Prodi < unique[j].Prodi
		}
		return angkatanAfter(unique[i].Angkatan, unique[j].Angkatan)
	})

	for _, sc := range unique {
		if _, ok := res.AngkatanByProdi[sc.Prodi]; !ok {
			res.ProdiList = append(res.ProdiList, sc.Prodi)
		}
		res.AngkatanByProdi[sc.Prodi] = append(res.AngkatanByProdi[sc.Prodi], sc.Angkatan)
		res.Scopes = append(res.Scopes, dto.ScopeDTO{Prodi: sc.Prodi, Angkatan: sc.Angkatan})
	}
	return res
}

// angkatanAfter orders numerically when both sides parse, lexically otherwise.
func angkatanAfter(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}
