package classifier

// Accuracy is the fraction of predictions equal to the truth.
func Accuracy(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i := range truth {
		if truth[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// WeightedF1 averages per-class F1 weighted by each class's support in truth.
// Classes with zero precision and recall contribute 0.
func WeightedF1(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	support := map[int]int{}
	tp := map[int]int{}
	predicted := map[int]int{}
	for i := range truth {
		support[truth[i]]++
		predicted[pred[i]]++
		if truth[i] == pred[i] {
			tp[truth[i]]++
		}
	}
	total := 0.0
	for class, s := range support {
		var precision, recall float64
		if predicted[class] > 0 {
			precision = float64(tp[class]) / float64(predicted[class])
		}
		recall = float64(tp[class]) / float64(s)
		if precision+recall == 0 {
			continue
		}
		f1 := 2 * precision * recall / (precision + recall)
		total += f1 * float64(s)
	}
	return total / float64(len(truth))
}
