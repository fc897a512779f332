package prediction

// YearOffset is the first year of the dataset. The transformer was fitted on
// years relative to it, so NormalizeYear must match the training pipeline.
const YearOffset = 1880

// Feature column names as seen by the fitted transformer.
const (
	FeatureYear                     = "Year"
	FeatureIsFamous                 = "Is_Famous"
	FeatureGenderBinary             = "Gender_Binary"
	FeatureRollingGenderRatio       = "Rolling_Average_Gender_Ratio_5_Years"
	FeatureVowelCount               = "Vowel_Count"
	FeatureEndsWithSpecifiedLetters = "Ends_With_Specified_Letters"
)

// Input is what the user enters on the prediction page. Year is the raw
// calendar year. Values are not range checked here.
type Input struct {
	Name                            string  `json:"name"`
	Year                            int     `json:"year"`
	IsFamous                        int     `json:"is_famous"`
	GenderBinary                    int     `json:"gender_binary"`
	RollingAverageGenderRatio5Years float64 `json:"rolling_average_gender_ratio_5_years"`
	VowelCount                      int     `json:"vowel_count"`
	EndsWithSpecifiedLetters        int     `json:"ends_with_specified_letters"`
}

// FeatureVector is one row handed to the transformer, with Year already
// normalized.
type FeatureVector struct {
	Year                            float64
	IsFamous                        float64
	GenderBinary                    float64
	RollingAverageGenderRatio5Years float64
	VowelCount                      float64
	EndsWithSpecifiedLetters        float64
}

func NormalizeYear(year int) int {
	return year - YearOffset
}

func NewFeatureVector(in Input) FeatureVector {
	return FeatureVector{
		Year:                            float64(NormalizeYear(in.Year)),
		IsFamous:                        float64(in.IsFamous),
		GenderBinary:                    float64(in.GenderBinary),
		RollingAverageGenderRatio5Years: in.RollingAverageGenderRatio5Years,
		VowelCount:                      float64(in.VowelCount),
		EndsWithSpecifiedLetters:        float64(in.EndsWithSpecifiedLetters),
	}
}

// Columns returns the row keyed by feature column name.
func (f FeatureVector) Columns() map[string]float64 {
	return map[string]float64{
		FeatureYear:                     f.Year,
		FeatureIsFamous:                 f.IsFamous,
		FeatureGenderBinary:             f.GenderBinary,
		FeatureRollingGenderRatio:       f.RollingAverageGenderRatio5Years,
		FeatureVowelCount:               f.VowelCount,
		FeatureEndsWithSpecifiedLetters: f.EndsWithSpecifiedLetters,
	}
}
