package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func ReviewToResponse(review *entity.Review) *dto.ReviewResponse {
	if review == nil {
		return nil
	}
	return &dto.ReviewResponse{
		ID:          review.ID,
		DoctorID:    review.DoctorID,
		PatientName: review.PatientName,
		Rating:      review.Rating,
		Comment:     review.Comment,
		Verified:    review.Verified,
		CreatedAt:   review.CreatedAt,
	}
}

// ReviewsToListResponse also computes the average rating, rounded to one decimal
func ReviewsToListResponse(reviews []entity.Review) *dto.ReviewListResponse {
	response := &dto.ReviewListResponse{
		Reviews: make([]dto.ReviewResponse, len(reviews)),
		Total:   len(reviews),
	}

	sum := 0
	for i := range reviews {
		response.Reviews[i] = *ReviewToResponse(&reviews[i])
		sum += reviews[i].Rating
	}
	if len(reviews) > 0 {
		avg := float64(sum) / float64(len(reviews))
		response.AverageRating = float64(int(avg*10+0.5)) / 10
	}
	return response
}
